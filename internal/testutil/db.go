package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/db"
)

// SetupTestDB returns a migrated in-memory catalogue that is closed when
// the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.InitDB(":memory:")
	require.NoError(t, err, "failed to open in-memory database")
	// Each connection to :memory: is its own database, so pin one.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database), "failed to apply migrations")
	return database
}
