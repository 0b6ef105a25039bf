// Shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/vrsandeep/comic-go/internal/api"
	"github.com/vrsandeep/comic-go/internal/config"
	"github.com/vrsandeep/comic-go/internal/core"
	"github.com/vrsandeep/comic-go/internal/importer"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
	"github.com/vrsandeep/comic-go/internal/scraper/providers/mockvine"
	"github.com/vrsandeep/comic-go/internal/websocket"
)

// SetupTestApp builds a core.App over an in-memory database with the
// offline mockvine provider selected and the import job registered.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	db := SetupTestDB(t)

	cfg := &config.Config{}
	// The parser ignores an "incoming" parent folder when naming a series.
	cfg.Incoming.Path = filepath.Join(t.TempDir(), "incoming")
	cfg.Library.Path = filepath.Join(t.TempDir(), "library")
	cfg.Scraper.Provider = "mockvine"

	hub := websocket.NewHub()
	go hub.Run()
	app := core.NewApp(cfg, db, hub)
	app.Version = "test"
	app.JobManager().Register(jobs.ImportIncomingJobID, "Import Incoming", importer.ImportIncoming)

	t.Cleanup(func() {
		providers.UnregisterAll()
	})
	providers.Register(mockvine.New())
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app.DB(), app
}
