package api

import (
	"errors"
	"net/http"

	"github.com/vrsandeep/comic-go/internal/jobs"
)

func (s *Server) handleGetJobsStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.JobManager().GetStatus())
}

func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		JobID string `json:"job_id"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.JobID == "" {
		payload.JobID = jobs.ImportIncomingJobID
	}

	err := s.app.JobManager().RunJob(payload.JobID, s.app)
	if errors.Is(err, jobs.ErrJobRunning) {
		RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Job started", "job_id": payload.JobID})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	if !s.app.JobManager().Cancel() {
		RespondWithError(w, http.StatusConflict, "No job is running")
		return
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Job cancellation requested"})
}
