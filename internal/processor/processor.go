// This file turns a single comic path into an accept-or-review decision by
// combining the filename parser with the knowledge base matcher.

package processor

import (
	"fmt"
	"log"

	"github.com/vrsandeep/comic-go/internal/knowledge"
	"github.com/vrsandeep/comic-go/internal/library"
	"github.com/vrsandeep/comic-go/internal/models"
)

// AutoAccept reports whether a result may be filed without review. Low
// confidence means "accept with caution", so only High and Medium qualify.
func AutoAccept(result models.ProcessingResult) bool {
	if !result.Success || result.Data == nil {
		return false
	}
	return result.Confidence == models.ConfidenceHigh || result.Confidence == models.ConfidenceMedium
}

// UnknownPublisher is filled in when neither the knowledge base nor the
// caller can name a publisher.
const UnknownPublisher = "Unknown Publisher"

// maxSuggestions is how many runner-up matches accompany a result.
const maxSuggestions = 3

// Processor holds an immutable knowledge base snapshot and processes files
// against it. It keeps no other state, so one Processor may be shared.
type Processor struct {
	kb []models.ComicKnowledge
}

// New creates a Processor over a private copy of kb.
func New(kb []models.ComicKnowledge) *Processor {
	return &Processor{kb: knowledge.Snapshot(kb)}
}

// KnowledgeBase returns the snapshot the processor matches against.
func (p *Processor) KnowledgeBase() []models.ComicKnowledge {
	return p.kb
}

// Process parses the file's path and reconciles it with the knowledge base.
// It never panics: an unexpected failure becomes a Low confidence result.
func (p *Processor) Process(file models.QueueFile) (result models.ProcessingResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Processing %s panicked: %v", file.Path, r)
			result = models.ProcessingResult{
				Success:     false,
				Confidence:  models.ConfidenceLow,
				Error:       fmt.Sprintf("Processing failed: %v", r),
				Suggestions: []models.KnowledgeMatch{},
			}
		}
	}()

	parsed := library.ParseFilename(file.Path)
	if parsed.Series == nil || parsed.Issue == nil {
		return models.ProcessingResult{
			Success:     false,
			Confidence:  models.ConfidenceLow,
			Error:       "Could not extract series name and issue number from filename",
			Suggestions: []models.KnowledgeMatch{},
		}
	}

	matches := knowledge.Search(parsed, p.kb)
	if len(matches) > 0 {
		return fromMatch(parsed, matches)
	}
	return fromFilename(parsed, file.PublisherHint, matches)
}

// fromMatch builds a result around the best match. Canonical fields come
// from the knowledge base; year and issue come from the filename when known.
func fromMatch(parsed models.ParsedComicInfo, matches []models.KnowledgeMatch) models.ProcessingResult {
	best := matches[0]

	year := best.StartYear
	if parsed.Year != nil {
		year = *parsed.Year
	}
	volume := best.Volume
	if volume == "" && parsed.Volume != nil {
		volume = *parsed.Volume
	}

	suggestions := matches[1:]
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return models.ProcessingResult{
		Success:    true,
		Confidence: best.Confidence,
		Data: &models.ResultData{
			Series:    best.Series,
			Issue:     *parsed.Issue,
			Year:      year,
			Publisher: best.Publisher,
			Volume:    volume,
			Summary: fmt.Sprintf("Matched %q from the local knowledge base (%s confidence, %d candidate(s)).",
				best.Series, best.Confidence, len(matches)),
		},
		Suggestions: append([]models.KnowledgeMatch{}, suggestions...),
	}
}

// fromFilename accepts what the parser found when nothing in the knowledge
// base matched. A year is required; a caller-supplied publisher lifts the
// result to Medium.
func fromFilename(parsed models.ParsedComicInfo, publisherHint string, matches []models.KnowledgeMatch) models.ProcessingResult {
	if parsed.Year == nil {
		return models.ProcessingResult{
			Success:     false,
			Confidence:  models.ConfidenceLow,
			Error:       fmt.Sprintf("No knowledge base match for %q and no year in the filename", *parsed.Series),
			Suggestions: matches,
		}
	}

	confidence := models.ConfidenceLow
	publisher := UnknownPublisher
	if publisherHint != "" {
		confidence = models.ConfidenceMedium
		publisher = publisherHint
	}

	volume := ""
	if parsed.Volume != nil {
		volume = *parsed.Volume
	}

	return models.ProcessingResult{
		Success:    true,
		Confidence: confidence,
		Data: &models.ResultData{
			Series:    *parsed.Series,
			Issue:     *parsed.Issue,
			Year:      *parsed.Year,
			Publisher: publisher,
			Volume:    volume,
			Summary:   fmt.Sprintf("Parsed from filename only; %q was not found in the local knowledge base.", *parsed.Series),
		},
		Suggestions: []models.KnowledgeMatch{},
	}
}
