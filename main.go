package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vrsandeep/comic-go/internal/api"
	"github.com/vrsandeep/comic-go/internal/core"
	"github.com/vrsandeep/comic-go/internal/importer"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/library"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	go app.WsHub().Run()

	// Register all available metadata providers here.
	core.RegisterProviders(app.Config())
	if app.Provider() == nil {
		log.Printf("Warning: metadata provider '%s' is not registered, scraping is disabled", app.Config().Scraper.Provider)
	}

	app.JobManager().Register(jobs.ImportIncomingJobID, "Import Incoming", importer.ImportIncoming)

	// Import whatever is already waiting before the watcher takes over.
	go func() {
		if err := app.JobManager().RunJob(jobs.ImportIncomingJobID, app); err != nil {
			log.Printf("Warning: initial import could not start: %v", err)
		}
	}()

	if app.Config().Incoming.Watch {
		watcher := library.NewWatcherService(app)
		if err := watcher.Start(); err != nil {
			log.Printf("Warning: failed to watch incoming folder: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	if scheduler := jobs.StartJobs(app); scheduler != nil {
		defer scheduler.Stop()
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	app.JobManager().Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
