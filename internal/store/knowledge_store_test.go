package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/store"
	"github.com/vrsandeep/comic-go/internal/testutil"
)

func TestKnowledgeStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	t.Run("Empty knowledge base", func(t *testing.T) {
		kb, err := s.GetKnowledgeBase()
		require.NoError(t, err)
		assert.NotNil(t, kb)
		assert.Empty(t, kb)
	})

	t.Run("Save and load", func(t *testing.T) {
		err := s.SaveKnowledge([]models.ComicKnowledge{
			{Series: "Saga", Publisher: "Image", StartYear: 2012, Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 2012}}},
			{Series: "Batman", Publisher: "DC", StartYear: 1940, Volumes: []models.KnowledgeVolume{
				{Volume: "1", Year: 1940}, {Volume: "2", Year: 2011},
			}},
		})
		require.NoError(t, err)

		kb, err := s.GetKnowledgeBase()
		require.NoError(t, err)
		require.Len(t, kb, 2)
		assert.Equal(t, "Saga", kb[0].Series)
		assert.Equal(t, "Image", kb[0].Publisher)
		assert.Equal(t, []models.KnowledgeVolume{{Volume: "1", Year: 2012}}, kb[0].Volumes)
		assert.Equal(t, "Batman", kb[1].Series)
		assert.Len(t, kb[1].Volumes, 2)
	})

	t.Run("Saving an existing series merges", func(t *testing.T) {
		err := s.SaveKnowledge([]models.ComicKnowledge{
			{Series: "  BATMAN ", Publisher: "DC Comics", StartYear: 2011, Volumes: []models.KnowledgeVolume{
				{Volume: "2", Year: 2011}, {Volume: "3", Year: 2016},
			}},
		})
		require.NoError(t, err)

		kb, err := s.GetKnowledgeBase()
		require.NoError(t, err)
		require.Len(t, kb, 2)
		batman := kb[1]
		assert.Equal(t, "Batman", batman.Series, "first-seen display name is kept")
		assert.Equal(t, "DC Comics", batman.Publisher)
		assert.Equal(t, 1940, batman.StartYear, "earliest start year wins")
		assert.Equal(t, []models.KnowledgeVolume{
			{Volume: "1", Year: 1940}, {Volume: "2", Year: 2011}, {Volume: "3", Year: 2016},
		}, batman.Volumes)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.DeleteKnowledge("saga"))
		assert.ErrorIs(t, s.DeleteKnowledge("saga"), store.ErrKnowledgeNotFound)

		kb, err := s.GetKnowledgeBase()
		require.NoError(t, err)
		require.Len(t, kb, 1)
		assert.Equal(t, "Batman", kb[0].Series)

		var volumes int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM knowledge_volumes").Scan(&volumes))
		assert.Equal(t, 3, volumes)
	})
}
