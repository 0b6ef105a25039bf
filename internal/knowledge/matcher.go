// This file implements fuzzy matching of parsed filenames against the local
// knowledge base. Candidates are ranked by a weighted blend of series name
// similarity and how close one of their volumes is to the parsed year.

package knowledge

import (
	"math"
	"sort"
	"strings"

	"github.com/vrsandeep/comic-go/internal/models"
)

// Scoring constants. Downstream review policy keys off the confidence bands,
// so these values must not drift.
const (
	MatchThreshold    = 0.6
	SubstringScore    = 0.8
	SeriesWeight      = 0.7
	VolumeWeight      = 0.3
	HighThreshold     = 0.85
	MediumThreshold   = 0.7
	YearFloor         = 0.3
	NoYearVolumeScore = 0.5
	MaxMatches        = 5
)

type scoredMatch struct {
	match models.KnowledgeMatch
	score float64
}

// Search returns up to MaxMatches knowledge base entries that plausibly match
// the parsed info, best first. It returns an empty slice when there is no
// series to match on or the knowledge base is empty.
func Search(parsed models.ParsedComicInfo, kb []models.ComicKnowledge) []models.KnowledgeMatch {
	matches := []models.KnowledgeMatch{}
	if parsed.Series == nil || len(kb) == 0 {
		return matches
	}

	var candidates []scoredMatch
	for _, entry := range kb {
		similarity := SeriesSimilarity(*parsed.Series, entry.Series)
		if similarity <= MatchThreshold {
			continue
		}

		volume, volumeScore := SelectVolume(entry, parsed.Year)
		score := Score(similarity, volumeScore)
		candidates = append(candidates, scoredMatch{
			match: models.KnowledgeMatch{
				Series:     entry.Series,
				Publisher:  entry.Publisher,
				Volume:     volume.Volume,
				StartYear:  entry.StartYear,
				Confidence: BandFor(score),
			},
			score: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	for i, c := range candidates {
		if i == MaxMatches {
			break
		}
		matches = append(matches, c.match)
	}
	return matches
}

// SeriesSimilarity compares two series names case-insensitively. An exact
// match scores 1, containment scores SubstringScore, anything else scores
// the Dice overlap of their whitespace-separated words.
func SeriesSimilarity(a, b string) float64 {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))
	if s1 == "" || s2 == "" {
		return 0
	}
	if s1 == s2 {
		return 1.0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return SubstringScore
	}

	words1 := strings.Fields(s1)
	words2 := strings.Fields(s2)
	lookup := make(map[string]bool, len(words2))
	for _, w := range words2 {
		lookup[w] = true
	}
	common := 0
	for _, w := range words1 {
		if lookup[w] {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return 2 * float64(common) / float64(len(words1)+len(words2))
}

// SelectVolume picks the volume of entry whose year is closest to year and
// returns it with its year score. Ties go to the earliest listed volume.
// Without a year the first volume is used with a fixed NoYearVolumeScore.
// An entry without volumes is scored against its start year.
func SelectVolume(entry models.ComicKnowledge, year *int) (models.KnowledgeVolume, float64) {
	if year == nil {
		if len(entry.Volumes) == 0 {
			return models.KnowledgeVolume{Year: entry.StartYear}, NoYearVolumeScore
		}
		return entry.Volumes[0], NoYearVolumeScore
	}

	if len(entry.Volumes) == 0 {
		return models.KnowledgeVolume{Year: entry.StartYear}, YearScore(*year, entry.StartYear)
	}

	best := entry.Volumes[0]
	bestDiff := absInt(*year - best.Year)
	for _, v := range entry.Volumes[1:] {
		if diff := absInt(*year - v.Year); diff < bestDiff {
			best, bestDiff = v, diff
		}
	}
	return best, YearScore(*year, best.Year)
}

// YearScore is 1 for an exact year and degrades by 0.1 per year of distance,
// never dropping below YearFloor.
func YearScore(parsedYear, volumeYear int) float64 {
	diff := absInt(parsedYear - volumeYear)
	if diff == 0 {
		return 1.0
	}
	return math.Max(YearFloor, 1.0-float64(diff)/10)
}

// Score blends series similarity and volume score into the overall score.
func Score(seriesSimilarity, volumeScore float64) float64 {
	return SeriesWeight*seriesSimilarity + VolumeWeight*volumeScore
}

// BandFor maps an overall score onto a confidence band.
func BandFor(score float64) models.Confidence {
	switch {
	case score > HighThreshold:
		return models.ConfidenceHigh
	case score > MediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
