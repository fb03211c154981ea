package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL", dsn(":memory:"))
	assert.Equal(t, "file:vocab.db?cache=shared&_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL&_journal_mode=WAL",
		dsn("file:vocab.db?cache=shared"))
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	database, err := Open(path)
	require.NoError(t, err)
	versions, err := database.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_indexes.sql"}, versions)

	applied, err := database.MigrateVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
	require.NoError(t, database.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	versions, err = reopened.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestForeignKeysEnforced(t *testing.T) {
	database, err := Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var enabled int
	require.NoError(t, database.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
}

func TestCheckpoint(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, database.Checkpoint(context.Background()))
}
