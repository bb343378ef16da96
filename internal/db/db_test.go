package db

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory_AppliesMigrations(t *testing.T) {
	database, err := OpenMemory()
	require.NoError(t, err)
	defer database.Close()

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	assert.Subset(t, tables, []string{"entries", "matches", "organizers", "sessions", "tournaments"})

	var guests int
	err = database.Get(&guests, "SELECT COUNT(*) FROM organizers WHERE id = '00000000-0000-0000-0000-000000000001'")
	require.NoError(t, err)
	assert.Equal(t, 1, guests)

	// Running again is a no-op.
	require.NoError(t, RunMigrations(database.DB))
}

func TestWithConnectionParams(t *testing.T) {
	dsn := withConnectionParams("arena.db?_journal_mode=WAL&_busy_timeout=100")

	path, rawQuery, _ := strings.Cut(dsn, "?")
	assert.Equal(t, "arena.db", path)
	query, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "WAL", query.Get("_journal_mode"))
	assert.Equal(t, "100", query.Get("_busy_timeout"))
	assert.Equal(t, "on", query.Get("_foreign_keys"))
	assert.Equal(t, "immediate", query.Get("_txlock"))
}

func TestInitDB_ForeignKeysOnEveryConnection(t *testing.T) {
	database, err := InitDB(filepath.Join(t.TempDir(), "arena.db") + "?_journal_mode=WAL")
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	first, err := database.Connx(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := database.Connx(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sqlx.Conn{first, second} {
		var enabled int
		require.NoError(t, conn.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
		assert.Equal(t, 1, enabled)
	}
}
