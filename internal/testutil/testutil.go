package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/models"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied
// and foreign keys enabled.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser creates a user row directly and returns its id.
func InsertUser(t *testing.T, database *db.DB, email string) int64 {
	t.Helper()
	now := time.Now().UTC()
	res, err := database.ExecContext(context.Background(), `
INSERT INTO users (email, password_hash, name, created_at, updated_at)
VALUES (?, 'x', 'Test User', ?, ?)
`, email, now, now)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertWord creates a word row directly and returns its id.
func InsertWord(t *testing.T, database *db.DB, word string, level models.Level) int64 {
	t.Helper()
	now := time.Now().UTC()
	res, err := database.ExecContext(context.Background(), `
INSERT INTO words (word, definition, meaning, example_sentences, level, created_at, updated_at)
VALUES (?, ?, ?, '[]', ?, ?, ?)
`, word, "definition of "+word, "meaning of "+word, string(level), now, now)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
