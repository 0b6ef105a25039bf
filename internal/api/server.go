// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vrsandeep/comic-go/internal/core"
	"github.com/vrsandeep/comic-go/internal/db"
	"github.com/vrsandeep/comic-go/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	db    *sql.DB
	store *store.Store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		db:    app.DB(),
		store: store.New(app.DB()),
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleGetVersion)
		r.Get("/health", s.handleHealth)

		// Metadata pipeline
		r.Post("/parse", s.handleParse)
		r.Post("/process", s.handleProcess)
		r.Post("/batch", s.handleBatch)
		r.Post("/scrape", s.handleScrape)
		r.Get("/providers", s.handleListProviders)

		// Knowledge base
		r.Get("/knowledge", s.handleListKnowledge)
		r.Post("/knowledge", s.handleSaveKnowledge)
		r.Delete("/knowledge/{series}", s.handleDeleteKnowledge)

		// Library
		r.Get("/comics", s.handleListComics)
		r.Get("/comics/{comicID}", s.handleGetComic)
		r.Delete("/comics/{comicID}", s.handleDeleteComic)
		r.Post("/comics/{comicID}/rating", s.handleUpdateRating)
		r.Post("/comics/{comicID}/read", s.handleMarkRead)

		// Jobs
		r.Get("/jobs/status", s.handleGetJobsStatus)
		r.Post("/jobs/run", s.handleRunJob)
		r.Post("/jobs/cancel", s.handleCancelJob)
	})

	// WebSocket route
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	return r
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	version, dirty, err := db.SchemaVersion(s.db)
	if err != nil || dirty {
		RespondWithError(w, http.StatusServiceUnavailable, "Database schema is not usable")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "schema_version": version})
}
