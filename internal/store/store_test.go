package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseGateway(t *testing.T, gw Gateway) {
	t.Helper()
	ctx := context.Background()

	_, err := gw.Load(ctx, "gb_player")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, gw.Save(ctx, "gb_player", []byte(`{"name":"Nova"}`)))
	require.NoError(t, gw.Save(ctx, "gb_player", []byte(`{"name":"Zed"}`)))
	v, err := gw.Load(ctx, "gb_player")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Zed"}`, string(v))

	require.NoError(t, gw.Remove(ctx, "gb_player"))
	_, err = gw.Load(ctx, "gb_player")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, gw.Remove(ctx, "never-saved"))
}

func TestMemoryStore(t *testing.T) {
	exerciseGateway(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryStore()
	buf := []byte(`{"a":1}`)
	require.NoError(t, gw.Save(ctx, "k", buf))
	buf[2] = 'b'

	v, err := gw.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(v))
}

func TestSQLiteStore(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "data", "galactic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	exerciseGateway(t, NewSQLite(db))
}
