package syncsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSyncReturnsUserID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/sync", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"userId":"id-1"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	userID, err := client.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, "id-1", userID)
}

func TestSyncUnauthenticated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"authentication required"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Sync(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestProfileDecodesRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"id-1","tokenIdentifier":"u1","name":"Alice","email":"a@x.com","preferences":{"theme":"dark"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "Alice", profile.Name)
	require.Equal(t, "dark", profile.Preferences.Theme)
}

func TestProfileNullMeansNoRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `null`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestUpdatePreferencesUserNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"user record not found"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-1")
	_, err := client.UpdatePreferences(context.Background(), Preferences{Theme: "dark"})
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestWatchDeliversSnapshotAndUpdates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/me/events", r.URL.Path)
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, "event: profile\ndata: {\"id\":\"id-1\",\"name\":\"Alice\",\"preferences\":{}}\n\n")
		flusher.Flush()
		fmt.Fprint(w, ": ping\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: profile\ndata: {\"id\":\"id-1\",\"name\":\"Alice\",\"preferences\":{\"theme\":\"dark\"}}\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewClient(server.URL, "token-1")
	events, err := client.Watch(ctx)
	require.NoError(t, err)

	first := <-events
	require.NoError(t, first.Err)
	require.NotNil(t, first.Profile)
	require.Empty(t, first.Profile.Preferences.Theme)

	second := <-events
	require.NoError(t, second.Err)
	require.Equal(t, "dark", second.Profile.Preferences.Theme)

	_, open := <-events
	require.False(t, open, "expected channel closed after stream end")
}

func TestWatchRejectedStream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"authentication required"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Watch(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)
}
