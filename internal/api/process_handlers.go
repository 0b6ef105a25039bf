package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vrsandeep/comic-go/internal/library"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
	"github.com/vrsandeep/comic-go/internal/scraper"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
)

type fileRequest struct {
	Path          string `json:"path"`
	PublisherHint string `json:"publisher_hint"`
}

func (f fileRequest) queueFile() models.QueueFile {
	return models.QueueFile{
		ID:            uuid.NewString(),
		Path:          f.Path,
		Name:          filepath.Base(f.Path),
		PublisherHint: strings.TrimSpace(f.PublisherHint),
	}
}

type batchRequest struct {
	Files []fileRequest `json:"files"`
}

type batchResponse struct {
	BatchID string                             `json:"batch_id"`
	Files   []models.QueueFile                 `json:"files"`
	Results map[string]models.ProcessingResult `json:"results"`
	Stats   models.BatchStats                  `json:"stats"`
}

type scrapeRequest struct {
	Path   string `json:"path"`
	APIKey string `json:"api_key"`
}

func (s *Server) newProcessor() (*processor.Processor, error) {
	kb, err := s.store.GetKnowledgeBase()
	if err != nil {
		return nil, err
	}
	return processor.New(kb), nil
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	RespondWithJSON(w, http.StatusOK, library.ParseFilename(req.Path))
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		RespondWithError(w, http.StatusBadRequest, "Path is required")
		return
	}

	p, err := s.newProcessor()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load knowledge base")
		return
	}
	RespondWithJSON(w, http.StatusOK, p.Process(req.queueFile()))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	files := make([]models.QueueFile, 0, len(req.Files))
	for _, f := range req.Files {
		if strings.TrimSpace(f.Path) == "" {
			RespondWithError(w, http.StatusBadRequest, "Every file needs a path")
			return
		}
		files = append(files, f.queueFile())
	}

	p, err := s.newProcessor()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load knowledge base")
		return
	}

	batchID := "batch-" + uuid.NewString()
	hub := s.app.WsHub()
	coordinator := processor.NewBatchCoordinator(p, s.app.Config().BatchDelay())
	results := coordinator.RunBatch(r.Context(), files, func(processed, total int, label string) {
		progress := 100.0
		if total > 0 {
			progress = float64(processed) / float64(total) * 100
		}
		hub.BroadcastJSON(models.ProgressUpdate{
			JobID:     batchID,
			Message:   label,
			Progress:  progress,
			Processed: processed,
			Total:     total,
			Done:      label == processor.CompleteLabel,
		})
	})

	RespondWithJSON(w, http.StatusOK, batchResponse{
		BatchID: batchID,
		Files:   files,
		Results: results,
		Stats:   processor.GetStats(results),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	kb, err := s.store.GetKnowledgeBase()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load knowledge base")
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.app.Config().Scraper.APIKey
	}

	parsed := library.ParseFilename(req.Path)
	result := scraper.New(kb, s.app.Provider()).FetchMetadata(r.Context(), parsed, models.Credentials{APIKey: apiKey})
	RespondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	list := providers.GetAll()
	if list == nil {
		list = []models.ProviderInfo{}
	}
	RespondWithJSON(w, http.StatusOK, list)
}
