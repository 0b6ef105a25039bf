// This file runs the processor over a queue of files one at a time,
// reporting progress after each file and summarising the outcome.

package processor

import (
	"context"
	"log"
	"time"

	"github.com/vrsandeep/comic-go/internal/models"
)

// CompleteLabel is the label of the final progress callback of a batch.
const CompleteLabel = "Complete"

// ProgressFunc receives the number of processed files, the batch size and
// the name of the file just processed.
type ProgressFunc func(processed, total int, currentLabel string)

// BatchCoordinator processes queued files strictly in order.
type BatchCoordinator struct {
	processor *Processor
	delay     time.Duration
}

// NewBatchCoordinator creates a coordinator. delay is an optional pause
// between files for hosts that need to breathe between updates; zero
// disables it.
func NewBatchCoordinator(p *Processor, delay time.Duration) *BatchCoordinator {
	return &BatchCoordinator{processor: p, delay: delay}
}

// RunBatch processes files in the order given and returns results keyed by
// file ID (the path when a file has no ID). onProgress may be nil.
//
// Cancelling ctx lets the current file finish and stops before the next
// one; the partial results are returned and no completion callback fires.
func (b *BatchCoordinator) RunBatch(ctx context.Context, files []models.QueueFile, onProgress ProgressFunc) map[string]models.ProcessingResult {
	results := make(map[string]models.ProcessingResult, len(files))
	total := len(files)
	report := func(processed int, label string) {
		if onProgress != nil {
			onProgress(processed, total, label)
		}
	}

	log.Printf("Starting metadata batch of %d files", total)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			log.Printf("Metadata batch cancelled after %d/%d files", i, total)
			return results
		}

		results[fileKey(file)] = b.processor.Process(file)
		report(i+1, fileLabel(file))

		if b.delay > 0 && i < total-1 {
			select {
			case <-ctx.Done():
			case <-time.After(b.delay):
			}
		}
	}

	report(total, CompleteLabel)
	log.Printf("Metadata batch finished: %d files", total)
	return results
}

// GetStats rolls up a result map.
func GetStats(results map[string]models.ProcessingResult) models.BatchStats {
	stats := models.BatchStats{Total: len(results)}
	for _, r := range results {
		if !r.Success {
			stats.Failed++
			continue
		}
		stats.Successful++
		switch r.Confidence {
		case models.ConfidenceHigh:
			stats.HighConfidence++
		case models.ConfidenceMedium:
			stats.MediumConfidence++
		default:
			stats.LowConfidence++
		}
	}
	return stats
}

func fileKey(f models.QueueFile) string {
	if f.ID != "" {
		return f.ID
	}
	return f.Path
}

func fileLabel(f models.QueueFile) string {
	if f.Name != "" {
		return f.Name
	}
	return f.Path
}
