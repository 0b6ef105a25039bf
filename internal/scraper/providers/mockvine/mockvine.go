// An offline provider for development and testing purposes. It answers
// lookups from a small fixed catalogue without making network calls.
package mockvine

import (
	"context"
	"time"

	"github.com/vrsandeep/comic-go/internal/models"
)

type record struct {
	knowledge models.ComicKnowledge
	summary   string
}

// Keyed by exact canonical series name.
var catalogue = map[string]record{
	"Saga": {
		knowledge: models.ComicKnowledge{Series: "Saga", Publisher: "Image Comics", StartYear: 2012,
			Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 2012}}},
		summary: "An epic space opera about a family caught between two warring worlds.",
	},
	"Batman": {
		knowledge: models.ComicKnowledge{Series: "Batman", Publisher: "DC Comics", StartYear: 1940,
			Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 1940}, {Volume: "2", Year: 2011}, {Volume: "3", Year: 2016}}},
		summary: "The Dark Knight protects Gotham City.",
	},
	"The Walking Dead": {
		knowledge: models.ComicKnowledge{Series: "The Walking Dead", Publisher: "Image Comics", StartYear: 2003,
			Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 2003}}},
		summary: "Survivors of a zombie apocalypse search for a safe haven.",
	},
	"Spider-Man": {
		knowledge: models.ComicKnowledge{Series: "Spider-Man", Publisher: "Marvel", StartYear: 1990,
			Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 1990}}},
		summary: "Peter Parker balances life and heroics in New York.",
	},
	"X-Men": {
		knowledge: models.ComicKnowledge{Series: "X-Men", Publisher: "Marvel", StartYear: 1963,
			Volumes: []models.KnowledgeVolume{{Volume: "1", Year: 1963}, {Volume: "2", Year: 1991}, {Volume: "6", Year: 2021}}},
		summary: "Mutants sworn to protect a world that fears them.",
	},
}

type MockvineProvider struct {
	// Delay simulates network latency.
	Delay time.Duration
}

func New() *MockvineProvider {
	return &MockvineProvider{}
}

func (p *MockvineProvider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   "mockvine",
		Name: "Mockvine",
	}
}

func (p *MockvineProvider) Lookup(ctx context.Context, series string, _ models.Credentials) (*models.ComicKnowledge, string, error) {
	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	rec, ok := catalogue[series]
	if !ok {
		return nil, "", nil
	}
	k := rec.knowledge
	k.Volumes = append([]models.KnowledgeVolume(nil), rec.knowledge.Volumes...)
	return &k, rec.summary, nil
}
