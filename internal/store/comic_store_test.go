package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/store"
	"github.com/vrsandeep/comic-go/internal/testutil"
)

func accepted(series, issue string, year int, confidence models.Confidence) models.ProcessingResult {
	return models.ProcessingResult{
		Success:    true,
		Confidence: confidence,
		Data: &models.ResultData{
			Series:    series,
			Issue:     issue,
			Year:      year,
			Publisher: "Image",
			Volume:    "1",
			Summary:   "Matched from the local knowledge base.",
		},
	}
}

func TestComicStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	t.Run("Create and get", func(t *testing.T) {
		comic, err := s.CreateComic("/comics/Saga 001 (2012).cbz", accepted("Saga", "1", 2012, models.ConfidenceHigh), 24, "data:image/jpeg;base64,AAA")
		require.NoError(t, err)
		assert.Equal(t, "Saga", comic.Series)
		assert.Equal(t, models.ConfidenceHigh, comic.Confidence)
		assert.Equal(t, 24, comic.PageCount)
		assert.False(t, comic.CreatedAt.IsZero())

		got, err := s.GetComic(comic.ID)
		require.NoError(t, err)
		assert.Equal(t, comic.Path, got.Path)
	})

	t.Run("Create upserts by path", func(t *testing.T) {
		first, err := s.CreateComic("/comics/Saga 002 (2012).cbz", accepted("Saga", "2", 2012, models.ConfidenceMedium), 20, "")
		require.NoError(t, err)
		second, err := s.CreateComic("/comics/Saga 002 (2012).cbz", accepted("Saga", "2", 2012, models.ConfidenceHigh), 22, "")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.ConfidenceHigh, second.Confidence)
		assert.Equal(t, 22, second.PageCount)
	})

	t.Run("Failed results are rejected", func(t *testing.T) {
		_, err := s.CreateComic("/comics/unknown.cbz", models.ProcessingResult{Success: false}, 1, "")
		assert.Error(t, err)
	})

	t.Run("List with filter and paging", func(t *testing.T) {
		_, err := s.CreateComic("/comics/Batman 010.cbz", accepted("Batman", "10", 2016, models.ConfidenceLow), 30, "")
		require.NoError(t, err)

		all, total, err := s.ListComics(store.ListComicsOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, all, 3)
		assert.Equal(t, "Batman", all[0].Series)
		assert.Equal(t, "1", all[1].Issue)
		assert.Equal(t, "2", all[2].Issue)

		saga, total, err := s.ListComics(store.ListComicsOptions{Series: "saga", Page: 2, PerPage: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, saga, 1)
		assert.Equal(t, "2", saga[0].Issue)
	})

	t.Run("Rating and read flag", func(t *testing.T) {
		require.NoError(t, s.UpdateComicRating(1, 4))
		require.NoError(t, s.MarkComicRead(1, true))
		got, err := s.GetComic(1)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Rating)
		assert.True(t, got.Read)

		assert.Error(t, s.UpdateComicRating(1, 6))
		assert.ErrorIs(t, s.MarkComicRead(999, true), store.ErrComicNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.DeleteComic(1))
		_, err := s.GetComic(1)
		assert.ErrorIs(t, err, store.ErrComicNotFound)
		assert.ErrorIs(t, s.DeleteComic(1), store.ErrComicNotFound)
	})
}
