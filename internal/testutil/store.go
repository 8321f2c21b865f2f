package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmstudios/lmsite/internal/state"
)

// OpenTestStore opens a migrated in-memory SQLite store that is closed
// when the test ends.
func OpenTestStore(t testing.TB) *state.SQLStore {
	t.Helper()
	store, err := state.Open(context.Background(), state.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
