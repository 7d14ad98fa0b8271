package theme

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

const remotePushTimeout = 5 * time.Second

// Coordinator owns the current theme state. All collaborators are injected;
// the zero state before Load is a light selection so the first paint is
// deterministic regardless of how slow the store is.
type Coordinator struct {
	store   Store
	system  SystemSource
	applier Applier
	logger  *slog.Logger

	mu        sync.Mutex
	selection Selection
	remote    Remote

	cancelSystem func()
}

// CoordinatorOption configures optional Coordinator behavior.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger used for best-effort failures.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator wires the collaborators, applies the light default and
// starts following the system signal. Call Close to stop the subscription.
func NewCoordinator(store Store, system SystemSource, applier Applier, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		system:    system,
		applier:   applier,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		selection: SelectionLight,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.applier.Apply(ResolvedLight)
	c.cancelSystem = c.system.Subscribe(c.onSystemChange)
	return c
}

// Close stops the system-signal subscription.
func (c *Coordinator) Close() {
	if c.cancelSystem != nil {
		c.cancelSystem()
	}
}

// Load replaces the default with the persisted selection, if any. Absent or
// invalid stored values fall back to light.
func (c *Coordinator) Load() {
	sel, err := c.store.Load()
	if err != nil {
		c.logger.Warn("theme store read failed", "error", err)
		sel = SelectionLight
	}

	c.mu.Lock()
	c.selection = sel
	resolved := c.resolveLocked()
	c.mu.Unlock()

	c.applier.Apply(resolved)
}

// SetTheme records an explicit user choice: apply, persist, and mirror to the
// remote when one is attached. The remote push is best effort and never
// affects the local outcome.
func (c *Coordinator) SetTheme(sel Selection) error {
	if _, err := ParseSelection(string(sel)); err != nil {
		return err
	}

	c.mu.Lock()
	c.selection = sel
	resolved := c.resolveLocked()
	remote := c.remote
	c.mu.Unlock()

	c.applier.Apply(resolved)
	if err := c.store.Save(sel); err != nil {
		c.logger.Warn("theme store write failed", "error", err)
	}
	if remote != nil {
		go c.push(remote, sel)
	}
	return nil
}

// Theme returns the current selection and the appearance it resolves to.
func (c *Coordinator) Theme() (Selection, Resolved) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection, c.resolveLocked()
}

// ToggleTheme flips between light and dark based on the currently resolved
// appearance. A system selection is pinned to the opposite of what is on
// screen; toggling never lands on system.
func (c *Coordinator) ToggleTheme() {
	c.mu.Lock()
	resolved := c.resolveLocked()
	c.mu.Unlock()

	next := SelectionDark
	if resolved == ResolvedDark {
		next = SelectionLight
	}
	// Both inputs are valid constants.
	_ = c.SetTheme(next)
}

// ApplyRemote reconciles a selection read back from the server. The server
// value wins locally, and it is not echoed back.
func (c *Coordinator) ApplyRemote(value string) {
	sel, err := ParseSelection(value)
	if err != nil {
		c.logger.Warn("ignoring invalid remote theme", "value", value)
		return
	}

	c.mu.Lock()
	c.selection = sel
	resolved := c.resolveLocked()
	c.mu.Unlock()

	c.applier.Apply(resolved)
	if err := c.store.Save(sel); err != nil {
		c.logger.Warn("theme store write failed", "error", err)
	}
}

// SetRemote attaches the server mirror on sign-in, or detaches it with nil on
// sign-out.
func (c *Coordinator) SetRemote(remote Remote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote = remote
}

func (c *Coordinator) push(remote Remote, sel Selection) {
	ctx, cancel := context.WithTimeout(context.Background(), remotePushTimeout)
	defer cancel()
	if err := remote.PushTheme(ctx, string(sel)); err != nil {
		c.logger.Warn("theme remote push failed", "error", err, "selection", sel)
	}
}

func (c *Coordinator) onSystemChange(Resolved) {
	c.mu.Lock()
	if c.selection != SelectionSystem {
		c.mu.Unlock()
		return
	}
	resolved := c.resolveLocked()
	c.mu.Unlock()

	c.applier.Apply(resolved)
}

func (c *Coordinator) resolveLocked() Resolved {
	switch c.selection {
	case SelectionDark:
		return ResolvedDark
	case SelectionSystem:
		return c.system.Resolved()
	}
	return ResolvedLight
}
