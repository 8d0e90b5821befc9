package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, database.InitSchema(), "failed to initialize schema")
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ledger.db")

	database, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, database.Path())

	runID, err := database.CreateRun("/site", "blog", 2)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	// reopening keeps existing data
	database, err = Open(path)
	require.NoError(t, err)
	defer database.Close()

	run, err := database.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "/site", run.Root)
}
