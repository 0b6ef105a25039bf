package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/store"
)

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	kb, err := s.store.GetKnowledgeBase()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load knowledge base")
		return
	}
	RespondWithJSON(w, http.StatusOK, kb)
}

// handleSaveKnowledge merges the posted entries into the knowledge base and
// returns the resulting knowledge base.
func (s *Server) handleSaveKnowledge(w http.ResponseWriter, r *http.Request) {
	var entries []models.ComicKnowledge
	if !decodeJSON(w, r, &entries) {
		return
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Series) == "" {
			RespondWithError(w, http.StatusBadRequest, "Every entry needs a series name")
			return
		}
	}

	if err := s.store.SaveKnowledge(entries); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to save knowledge")
		return
	}
	s.handleListKnowledge(w, r)
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	series := chi.URLParam(r, "series")
	err := s.store.DeleteKnowledge(series)
	if errors.Is(err, store.ErrKnowledgeNotFound) {
		RespondWithError(w, http.StatusNotFound, "Series not found in knowledge base")
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete knowledge")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
