// This file implements the fallback metadata lookup used when the local
// knowledge base alone cannot settle a file. It retries the knowledge base
// first and only then asks an external provider.

package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vrsandeep/comic-go/internal/knowledge"
	"github.com/vrsandeep/comic-go/internal/library"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
)

// MinAPIKeyLength is the shortest API key considered well formed.
const MinAPIKeyLength = 10

// ProviderConfidence is the band given to a provider record. Providers only
// answer exact series names, but nothing checks the volume or issue.
const ProviderConfidence = models.ConfidenceMedium

// Error strings callers match on to tell "could not try" apart from
// "tried and found nothing".
const (
	ErrMsgInvalidCredentials = "API Key is missing or invalid"
	ErrMsgNoSeries           = "No series name to search for"
	errMsgNoMatchPrefix      = "No match found for series: "
)

// Scraper looks up metadata for parsed files that need more than the
// filename offers.
type Scraper struct {
	kb       []models.ComicKnowledge
	provider models.MetadataProvider
}

// New creates a Scraper over a snapshot of kb. provider may be nil, in which
// case only the knowledge base is consulted.
func New(kb []models.ComicKnowledge, provider models.MetadataProvider) *Scraper {
	return &Scraper{kb: knowledge.Snapshot(kb), provider: provider}
}

// FetchMetadata resolves parsed against the knowledge base and then the
// provider. Failures are reported in the result, never as a Go error.
func (s *Scraper) FetchMetadata(ctx context.Context, parsed models.ParsedComicInfo, creds models.Credentials) models.ScrapeResult {
	if !validCredentials(creds) {
		return models.ScrapeResult{Success: false, Error: ErrMsgInvalidCredentials}
	}
	if parsed.Series == nil {
		return models.ScrapeResult{Success: false, Error: ErrMsgNoSeries}
	}

	if matches := knowledge.Search(parsed, s.kb); len(matches) > 0 {
		best := matches[0]
		return models.ScrapeResult{
			Success:    true,
			Confidence: best.Confidence,
			Data: buildData(parsed, best.Series, best.Publisher, best.Volume, best.StartYear,
				fmt.Sprintf("Matched %q from the local knowledge base (%s confidence).", best.Series, best.Confidence)),
		}
	}

	if s.provider == nil {
		return noMatch(*parsed.Series)
	}

	info := s.provider.GetInfo()
	record, summary, err := s.provider.Lookup(ctx, *parsed.Series, creds)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidCredentials) {
			return models.ScrapeResult{Success: false, Error: ErrMsgInvalidCredentials}
		}
		log.Printf("Metadata lookup via %s failed for %q: %v", info.ID, *parsed.Series, err)
		return models.ScrapeResult{Success: false, Error: fmt.Sprintf("Metadata lookup failed: %v", err)}
	}
	if record == nil {
		return noMatch(*parsed.Series)
	}

	volume, _ := knowledge.SelectVolume(*record, parsed.Year)
	if summary == "" {
		summary = fmt.Sprintf("Metadata from %s.", info.Name)
	}
	return models.ScrapeResult{
		Success:    true,
		Confidence: ProviderConfidence,
		Data:       buildData(parsed, record.Series, record.Publisher, volume.Volume, record.StartYear, summary),
	}
}

// Retry gives a file whose processing result is not safe to file
// automatically a second chance through FetchMetadata. It returns result
// unchanged when the lookup cannot improve on it. Files without an issue
// number are never retried: they stay with whoever reviews them.
func (s *Scraper) Retry(ctx context.Context, file models.QueueFile, result models.ProcessingResult, creds models.Credentials) models.ProcessingResult {
	if processor.AutoAccept(result) {
		return result
	}
	parsed := library.ParseFilename(file.Path)
	if parsed.Issue == nil {
		return result
	}

	scraped := s.FetchMetadata(ctx, parsed, creds)
	if !scraped.Success {
		return result
	}
	if result.Success && scraped.Confidence == models.ConfidenceLow {
		return result
	}
	return models.ProcessingResult{
		Success:     true,
		Confidence:  scraped.Confidence,
		Data:        scraped.Data,
		Suggestions: result.Suggestions,
	}
}

// IsNoMatch reports whether a result failed because nothing was found, as
// opposed to a configuration or transport problem.
func IsNoMatch(r models.ScrapeResult) bool {
	return !r.Success && strings.HasPrefix(r.Error, errMsgNoMatchPrefix)
}

func validCredentials(creds models.Credentials) bool {
	return len(strings.TrimSpace(creds.APIKey)) >= MinAPIKeyLength
}

func noMatch(series string) models.ScrapeResult {
	return models.ScrapeResult{Success: false, Error: errMsgNoMatchPrefix + series}
}

func buildData(parsed models.ParsedComicInfo, series, publisher, volume string, startYear int, summary string) *models.ResultData {
	data := &models.ResultData{
		Series:    series,
		Year:      startYear,
		Publisher: publisher,
		Volume:    volume,
		Summary:   summary,
	}
	if parsed.Issue != nil {
		data.Issue = *parsed.Issue
	}
	if parsed.Year != nil {
		data.Year = *parsed.Year
	}
	return data
}
