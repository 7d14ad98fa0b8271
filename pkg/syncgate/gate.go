// Package syncgate implements the client half of the sign-in profile sync:
// a small state machine that runs the server's idempotent upsert exactly once
// per sign-in transition and reports whether protected views may render yet.
//
// The machine has three states, idle, syncing and synced. A failed sync
// returns to idle after a cooldown; sign-out always returns to idle. The gate
// fails open: while the sync is in an error state, protected content stays
// visible and a non-blocking error callback carries the notification.
package syncgate

import (
	"context"
	"sync"
	"time"

	"log/slog"
)

// State is the sync machine's current phase.
type State int

const (
	StateIdle State = iota
	StateSyncing
	StateSynced
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateSynced:
		return "synced"
	default:
		return "idle"
	}
}

// AuthPhase is the externally supplied authentication phase.
type AuthPhase int

const (
	// AuthUnknown means the auth provider has not resolved yet.
	AuthUnknown AuthPhase = iota
	AuthUnauthenticated
	AuthAuthenticated
)

// AuthState is the authentication snapshot driving the gate.
type AuthState struct {
	Phase   AuthPhase
	Subject string
}

// Syncer runs the server-side find-or-create and returns the record ID.
// *syncsdk.Client satisfies this.
type Syncer interface {
	Sync(ctx context.Context) (string, error)
}

// DefaultCooldown is how long after a failed sync the gate stays ineligible
// to retry.
const DefaultCooldown = 3 * time.Second

// Option configures a Gate.
type Option func(*Gate)

// WithCooldown overrides the retry cooldown after a failed sync.
func WithCooldown(d time.Duration) Option {
	return func(g *Gate) { g.cooldown = d }
}

// WithErrorFunc installs a callback invoked with every sync failure. The
// callback is the dismissable-banner analogue: it must not block.
func WithErrorFunc(fn func(error)) Option {
	return func(g *Gate) { g.onError = fn }
}

// WithLogger overrides the gate's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// Gate tracks sync progress for one client session. Safe for concurrent use.
type Gate struct {
	syncer   Syncer
	cooldown time.Duration
	onError  func(error)
	logger   *slog.Logger
	now      func() time.Time

	mu              sync.Mutex
	state           State
	auth            AuthState
	syncedSubject   string
	retryAt         time.Time
	lastErr         error
	profileResolved bool
	profilePresent  bool
}

// New creates a Gate in the idle state.
func New(syncer Syncer, opts ...Option) *Gate {
	g := &Gate{
		syncer:   syncer,
		cooldown: DefaultCooldown,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HandleAuth feeds an authentication snapshot into the machine. On the
// transition into the authenticated phase it runs the upsert, at most once
// per sign-in: re-entry while a sync is in flight, after completion for the
// same subject, or inside the failure cooldown is a no-op. Sign-out resets
// the machine so a later sign-in syncs again.
func (g *Gate) HandleAuth(ctx context.Context, auth AuthState) {
	g.mu.Lock()

	g.auth = auth

	switch auth.Phase {
	case AuthUnknown:
		g.mu.Unlock()
		return
	case AuthUnauthenticated:
		g.reset()
		g.mu.Unlock()
		return
	}

	// A synced flag only counts for the subject it was earned for; a
	// different account signing in starts over.
	if g.state == StateSynced && g.syncedSubject == auth.Subject {
		g.mu.Unlock()
		return
	}
	if g.state == StateSyncing {
		g.mu.Unlock()
		return
	}
	if !g.retryAt.IsZero() && g.now().Before(g.retryAt) {
		g.mu.Unlock()
		return
	}

	g.state = StateSyncing
	g.lastErr = nil
	subject := auth.Subject
	g.mu.Unlock()

	_, err := g.syncer.Sync(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	// Discard stale completions: the session may have signed out or
	// switched identity while the call was in flight.
	if g.auth.Phase != AuthAuthenticated || g.auth.Subject != subject {
		if g.state == StateSyncing {
			g.state = StateIdle
		}
		return
	}

	if err != nil {
		g.logger.Error("profile sync failed", "error", err, "subject", subject)
		g.state = StateIdle
		g.lastErr = err
		g.retryAt = g.now().Add(g.cooldown)
		if g.onError != nil {
			g.onError(err)
		}
		return
	}

	g.state = StateSynced
	g.syncedSubject = subject
	g.retryAt = time.Time{}
}

// ObserveProfile records a delivery from the reactive profile read. resolved
// distinguishes "not yet answered" from "answered"; present says whether the
// answer was a record or null.
func (g *Gate) ObserveProfile(resolved, present bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profileResolved = resolved
	g.profilePresent = present
}

// ShouldBlock reports whether protected views must be withheld. That is the
// case only while the caller is authenticated, the sync has not completed
// and the profile read has not resolved yet. An errored sync never blocks.
func (g *Gate) ShouldBlock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.auth.Phase != AuthAuthenticated {
		return false
	}
	if g.lastErr != nil {
		return false
	}
	if g.state == StateSynced && g.syncedSubject == g.auth.Subject {
		return false
	}
	return !g.profileResolved
}

// State returns the machine's current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the most recent sync failure, or nil. The error is cleared on
// the next successful sync, on dismissal and on sign-out.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// DismissError clears the surfaced failure without touching retry timing.
func (g *Gate) DismissError() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = nil
}

// reset returns the machine to idle. Callers must hold g.mu.
func (g *Gate) reset() {
	g.state = StateIdle
	g.syncedSubject = ""
	g.retryAt = time.Time{}
	g.lastErr = nil
	g.profileResolved = false
	g.profilePresent = false
}
