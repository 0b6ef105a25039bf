package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vrsandeep/comic-go/internal/store"
)

func (s *Server) handleListComics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	comics, total, err := s.store.ListComics(store.ListComicsOptions{
		Series:  q.Get("series"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list comics")
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	RespondWithJSON(w, http.StatusOK, comics)
}

func (s *Server) handleGetComic(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comicID")
	if !ok {
		return
	}
	comic, err := s.store.GetComic(id)
	if err != nil {
		respondComicError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, comic)
}

func (s *Server) handleDeleteComic(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comicID")
	if !ok {
		return
	}
	if err := s.store.DeleteComic(id); err != nil {
		respondComicError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateRating(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comicID")
	if !ok {
		return
	}
	var payload struct {
		Rating int `json:"rating"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Rating < 0 || payload.Rating > 5 {
		RespondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}
	if err := s.store.UpdateComicRating(id, payload.Rating); err != nil {
		respondComicError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]int{"rating": payload.Rating})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comicID")
	if !ok {
		return
	}
	var payload struct {
		Read bool `json:"read"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := s.store.MarkComicRead(id, payload.Read); err != nil {
		respondComicError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"read": payload.Read})
}

func respondComicError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrComicNotFound) {
		RespondWithError(w, http.StatusNotFound, "Comic not found")
		return
	}
	RespondWithError(w, http.StatusInternalServerError, err.Error())
}
