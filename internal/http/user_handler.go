package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"launchpad/internal/users"
)

const eventsHeartbeatInterval = 25 * time.Second

// UserHandler exposes the profile sync, read and preferences endpoints.
type UserHandler struct {
	service  *users.Service
	notifier *users.Notifier
	logger   *slog.Logger
}

// NewUserHandler creates a handler.
func NewUserHandler(service *users.Service, notifier *users.Notifier, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, notifier: notifier, logger: logger}
}

// Sync handles POST /api/users/sync
// Re-runs the idempotent find-or-create for the caller and bumps lastSeenAt.
// Clients call this once per sign-in transition before rendering protected
// views, so a reactive profile read is guaranteed to resolve to a record.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	synced, err := h.service.Upsert(r.Context(), users.Identity{
		Subject:    user.TokenIdentifier,
		Name:       user.Name,
		Email:      user.Email,
		PictureURL: user.ImageURL,
	})
	if err != nil {
		h.logger.Error("user sync", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to sync user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userId": synced.ID})
}

// Me handles GET /api/users/me
// Returns the caller's profile record, or a JSON null when the caller is
// unauthenticated or no record exists. This read never fails with an auth
// error, so clients can poll it before the sign-in sync has completed.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdatePreferences handles PUT /api/users/me/preferences
// Replaces the caller's stored preferences object.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var payload struct {
		Theme    string `json:"theme"`
		Language string `json:"language"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	updated, err := h.service.UpdatePreferences(r.Context(), user.TokenIdentifier, users.Preferences{
		Theme:    payload.Theme,
		Language: payload.Language,
	})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user record not found")
			return
		}
		h.logger.Error("update preferences", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userId": updated.ID})
}

// Events handles GET /api/users/me/events
// Streams the caller's profile record as server-sent events: first the
// current snapshot, then one event per server-side change until the client
// disconnects. Heartbeat comments keep intermediaries from closing the
// stream.
func (h *UserHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	user := UserFromContext(r.Context())
	updates, cancel := h.notifier.Subscribe(user.TokenIdentifier)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Snapshot first, so subscribers see current state before any push.
	if err := writeProfileEvent(w, *user); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(eventsHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case updated, open := <-updates:
			if !open {
				return
			}
			if err := writeProfileEvent(w, updated); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeProfileEvent(w http.ResponseWriter, user users.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: profile\ndata: %s\n\n", data)
	return err
}
