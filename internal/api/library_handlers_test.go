package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/testutil"
)

func TestKnowledgeHandlers(t *testing.T) {
	server, _, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Empty list", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/knowledge", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Save merges", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/knowledge", []models.ComicKnowledge{
			{Series: "Saga", Publisher: "Image", StartYear: 2012},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, router, "POST", "/api/knowledge", []models.ComicKnowledge{
			{Series: "saga", Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 2012}}},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var kb []models.ComicKnowledge
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &kb))
		require.Len(t, kb, 1)
		assert.Equal(t, "Saga", kb[0].Series)
		assert.Equal(t, "Image", kb[0].Publisher)
		assert.Len(t, kb[0].Volumes, 1)
	})

	t.Run("Reject nameless entry", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/knowledge", []models.ComicKnowledge{{Publisher: "DC"}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		rr := doJSON(t, router, "DELETE", "/api/knowledge/SAGA", nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = doJSON(t, router, "DELETE", "/api/knowledge/Saga", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestComicHandlers(t *testing.T) {
	server, _, _ := testutil.SetupTestServer(t)
	router := server.Router()

	comic, err := server.Store().CreateComic("/library/Saga/Saga 001 (2012).cbz", models.ProcessingResult{
		Success:    true,
		Confidence: models.ConfidenceHigh,
		Data:       &models.ResultData{Series: "Saga", Issue: "1", Year: 2012, Publisher: "Image", Volume: "1", Summary: "test"},
	}, 10, "")
	require.NoError(t, err)

	t.Run("List", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/comics?series=saga", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("X-Total-Count"))
		var comics []models.Comic
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &comics))
		require.Len(t, comics, 1)
		assert.Equal(t, comic.ID, comics[0].ID)
	})

	t.Run("Get", func(t *testing.T) {
		rr := doJSON(t, router, "GET", "/api/comics/1", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Comic
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Saga", got.Series)

		assert.Equal(t, http.StatusNotFound, doJSON(t, router, "GET", "/api/comics/99", nil).Code)
		assert.Equal(t, http.StatusBadRequest, doJSON(t, router, "GET", "/api/comics/abc", nil).Code)
	})

	t.Run("Rating", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/comics/1/rating", map[string]int{"rating": 5})
		assert.Equal(t, http.StatusOK, rr.Code)
		rr = doJSON(t, router, "POST", "/api/comics/1/rating", map[string]int{"rating": 9})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Read", func(t *testing.T) {
		rr := doJSON(t, router, "POST", "/api/comics/1/read", map[string]bool{"read": true})
		assert.Equal(t, http.StatusOK, rr.Code)

		got, err := server.Store().GetComic(1)
		require.NoError(t, err)
		assert.True(t, got.Read)
		assert.Equal(t, 5, got.Rating)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doJSON(t, router, "DELETE", "/api/comics/1", nil).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, router, "DELETE", "/api/comics/1", nil).Code)
	})
}

func TestJobHandlers(t *testing.T) {
	server, _, app := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doJSON(t, router, "GET", "/api/jobs/status", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var statuses []jobs.JobStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, jobs.ImportIncomingJobID, statuses[0].ID)

	rr = doJSON(t, router, "POST", "/api/jobs/run", map[string]string{"job_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, "POST", "/api/jobs/run", map[string]string{})
	assert.Equal(t, http.StatusAccepted, rr.Code)

	require.Eventually(t, func() bool {
		return app.JobManager().GetStatus()[0].Status == jobs.StatusSuccess
	}, 2*time.Second, 20*time.Millisecond)

	rr = doJSON(t, router, "POST", "/api/jobs/cancel", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing to cancel once the job has finished")
}
