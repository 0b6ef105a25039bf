package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/vrsandeep/comic-go/internal/config"
	"github.com/vrsandeep/comic-go/internal/db"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/knowledge"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
	"github.com/vrsandeep/comic-go/internal/scraper/providers/comicvine"
	"github.com/vrsandeep/comic-go/internal/scraper/providers/mockvine"
	"github.com/vrsandeep/comic-go/internal/store"
	"github.com/vrsandeep/comic-go/internal/util"
	"github.com/vrsandeep/comic-go/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	db         *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	Version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	for _, dir := range []string{cfg.Library.Path, cfg.Incoming.Path} {
		if err := util.EnsureWritableDir(dir); err != nil {
			return nil, fmt.Errorf("invalid folder configuration: %w", err)
		}
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app := NewApp(cfg, database, websocket.NewHub())
	if err := app.ApplySeed(); err != nil {
		database.Close()
		return nil, err
	}

	log.Println("Core application setup complete.")
	return app, nil
}

// NewApp wires an App around already prepared dependencies. The caller owns
// starting the hub.
func NewApp(cfg *config.Config, database *sql.DB, hub *websocket.Hub) *App {
	app := &App{
		config:  cfg,
		db:      database,
		wsHub:   hub,
		Version: "dev",
	}
	app.jobManager = jobs.NewManager()
	return app
}

func (a *App) Config() *config.Config       { return a.config }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// KnowledgeBase loads the current knowledge base from the database.
func (a *App) KnowledgeBase() ([]models.ComicKnowledge, error) {
	return store.New(a.db).GetKnowledgeBase()
}

// Provider returns the metadata provider selected in the configuration,
// or nil when none is registered under that ID.
func (a *App) Provider() models.MetadataProvider {
	p, ok := providers.Get(a.config.Scraper.Provider)
	if !ok {
		return nil
	}
	return p
}

// RegisterProviders registers the built-in metadata providers that are not
// registered yet.
func RegisterProviders(cfg *config.Config) {
	builtin := []models.MetadataProvider{
		mockvine.New(),
		comicvine.New(cfg.Scraper.BaseURL),
	}
	for _, p := range builtin {
		if _, exists := providers.Get(p.GetInfo().ID); !exists {
			providers.Register(p)
		}
	}
}

// ApplySeed merges the configured seed document into the knowledge base
// when its version is newer than the last one applied.
func (a *App) ApplySeed() error {
	path := a.config.Knowledge.SeedPath
	if path == "" {
		return nil
	}
	seed, err := knowledge.LoadSeedFile(path)
	if err != nil {
		return err
	}

	st := store.New(a.db)
	current, _, err := st.GetSetting(knowledge.SeedVersionSetting)
	if err != nil {
		return fmt.Errorf("failed to read seed version: %w", err)
	}
	newer, err := seed.NewerThan(current)
	if err != nil {
		return err
	}
	if !newer {
		log.Printf("Knowledge seed %s already applied (stored %s)", seed.Version, current)
		return nil
	}

	if err := st.SaveKnowledge(seed.Entries); err != nil {
		return fmt.Errorf("failed to apply knowledge seed: %w", err)
	}
	if err := st.SetSetting(knowledge.SeedVersionSetting, seed.Version); err != nil {
		return fmt.Errorf("failed to record seed version: %w", err)
	}
	log.Printf("Applied knowledge seed %s with %d entries", seed.Version, len(seed.Entries))
	return nil
}

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
