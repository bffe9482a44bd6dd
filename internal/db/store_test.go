package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "nova.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.InsertSession("s1", "playwright", created))
	require.NoError(t, store.UpdateSessionURL("s1", "https://example.com"))

	sessions, err := store.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "s1", sessions[0].ID)
	require.Equal(t, "playwright", sessions[0].Driver)
	require.Equal(t, "https://example.com", sessions[0].CurrentURL)
	require.Nil(t, sessions[0].ClosedAt)

	require.NoError(t, store.CloseSession("s1", time.Now()))

	sessions, err = store.ListSessions(10)
	require.NoError(t, err)
	require.NotNil(t, sessions[0].ClosedAt)
}

func TestActionLogOrder(t *testing.T) {
	store := newTestStore(t)

	created := time.Now().UTC()
	require.NoError(t, store.InsertSession("s1", "cdp", created))

	for i, typ := range []string{"navigate", "click", "type", "scroll"} {
		require.NoError(t, store.AppendAction(ActionRow{
			ID:        string(rune('a' + i)),
			SessionID: "s1",
			Type:      typ,
			Success:   true,
			CreatedAt: created.Add(time.Duration(i) * time.Second),
		}))
	}

	actions, err := store.ListActions("s1")
	require.NoError(t, err)
	require.Len(t, actions, 4)
	require.Equal(t, "navigate", actions[0].Type)
	require.Equal(t, "scroll", actions[3].Type)
}

func TestActionFailureMetadata(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.InsertSession("s1", "playwright", time.Now()))
	require.NoError(t, store.AppendAction(ActionRow{
		ID:           "a1",
		SessionID:    "s1",
		Type:         "click",
		Selector:     "#missing",
		Success:      false,
		ErrorMessage: "timeout waiting for selector",
		CreatedAt:    time.Now(),
	}))

	actions, err := store.ListActions("s1")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.False(t, actions[0].Success)
	require.Equal(t, "timeout waiting for selector", actions[0].ErrorMessage)
	require.Equal(t, "#missing", actions[0].Selector)
}

func TestListActionsUnknownSession(t *testing.T) {
	store := newTestStore(t)

	actions, err := store.ListActions("nope")
	require.NoError(t, err)
	require.Empty(t, actions)
}
