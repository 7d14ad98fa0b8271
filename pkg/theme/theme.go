// Package theme keeps a tri-state appearance preference (light, dark, or
// follow-the-system) consistent across a local store, the operating system
// signal, the presentation layer and an optional remote mirror.
package theme

import (
	"context"
	"fmt"
)

// Selection is the user's stated preference.
type Selection string

const (
	SelectionLight  Selection = "light"
	SelectionDark   Selection = "dark"
	SelectionSystem Selection = "system"
)

// Resolved is a concrete appearance. "system" never reaches the presentation
// layer; it always resolves through the SystemSource first.
type Resolved string

const (
	ResolvedLight Resolved = "light"
	ResolvedDark  Resolved = "dark"
)

// ParseSelection validates a stored or remote value.
func ParseSelection(s string) (Selection, error) {
	switch Selection(s) {
	case SelectionLight, SelectionDark, SelectionSystem:
		return Selection(s), nil
	}
	return "", fmt.Errorf("invalid theme selection %q", s)
}

// Store persists the selection locally between sessions.
type Store interface {
	Load() (Selection, error)
	Save(Selection) error
}

// SystemSource reports the operating system's appearance and change events.
type SystemSource interface {
	Resolved() Resolved
	// Subscribe registers a callback for signal changes and returns a
	// cancel func. The callback may be invoked from any goroutine.
	Subscribe(func(Resolved)) (cancel func())
}

// Applier pushes a concrete appearance into the presentation layer.
type Applier interface {
	Apply(Resolved)
}

// Remote mirrors the selection to the user's server-side profile.
type Remote interface {
	PushTheme(ctx context.Context, selection string) error
}

// RemoteFunc adapts a plain function to the Remote interface, which keeps the
// wiring to an API client a one-liner.
type RemoteFunc func(ctx context.Context, selection string) error

func (f RemoteFunc) PushTheme(ctx context.Context, selection string) error {
	return f(ctx, selection)
}
