package knowledge

import (
	"strings"

	"github.com/vrsandeep/comic-go/internal/models"
)

// NormalizeKey is the identity of a series within the knowledge base.
func NormalizeKey(series string) string {
	return strings.ToLower(strings.TrimSpace(series))
}

func normalizeVolume(volume string) string {
	return strings.ToLower(strings.TrimSpace(volume))
}

// Merge folds incoming entries into existing ones. Entries sharing a
// normalized series name collapse into one: the first-seen display name is
// kept, the earliest known start year wins, a non-empty incoming publisher
// replaces the stored one and volumes are unioned. Order of first
// appearance is preserved. Neither input is modified.
func Merge(existing, incoming []models.ComicKnowledge) []models.ComicKnowledge {
	var merged []models.ComicKnowledge
	index := make(map[string]int)

	add := func(entry models.ComicKnowledge) {
		key := NormalizeKey(entry.Series)
		if key == "" {
			return
		}
		i, ok := index[key]
		if !ok {
			fresh := models.ComicKnowledge{
				Series:    strings.TrimSpace(entry.Series),
				Publisher: strings.TrimSpace(entry.Publisher),
				StartYear: entry.StartYear,
			}
			fresh.Volumes = unionVolumes(nil, entry.Volumes)
			index[key] = len(merged)
			merged = append(merged, fresh)
			return
		}

		current := &merged[i]
		if entry.StartYear != 0 && (current.StartYear == 0 || entry.StartYear < current.StartYear) {
			current.StartYear = entry.StartYear
		}
		if p := strings.TrimSpace(entry.Publisher); p != "" {
			current.Publisher = p
		}
		current.Volumes = unionVolumes(current.Volumes, entry.Volumes)
	}

	for _, e := range existing {
		add(e)
	}
	for _, e := range incoming {
		add(e)
	}
	return merged
}

func unionVolumes(base, extra []models.KnowledgeVolume) []models.KnowledgeVolume {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]models.KnowledgeVolume, 0, len(base)+len(extra))
	for _, list := range [][]models.KnowledgeVolume{base, extra} {
		for _, v := range list {
			key := normalizeVolume(v.Volume)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, models.KnowledgeVolume{Volume: strings.TrimSpace(v.Volume), Year: v.Year})
		}
	}
	return out
}

// Snapshot returns a deep copy of kb so later edits to the source cannot
// leak into a running batch.
func Snapshot(kb []models.ComicKnowledge) []models.ComicKnowledge {
	out := make([]models.ComicKnowledge, len(kb))
	for i, entry := range kb {
		out[i] = entry
		out[i].Volumes = append([]models.KnowledgeVolume(nil), entry.Volumes...)
	}
	return out
}
