package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat.db")

	db, err := InitDB(path)
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", "backend_url", "http://localhost:8080")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must be a no-op migration and keep the data.
	db, err = InitDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	var value string
	require.NoError(t, db.QueryRow("SELECT value FROM settings WHERE key = ?", "backend_url").Scan(&value))
	assert.Equal(t, "http://localhost:8080", value)
}
