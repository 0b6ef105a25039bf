// Package importer runs the metadata pipeline over the incoming folder and
// files every confidently identified comic into the library.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/library"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
	"github.com/vrsandeep/comic-go/internal/scraper"
	"github.com/vrsandeep/comic-go/internal/store"
	"github.com/vrsandeep/comic-go/internal/util"
)

// ImportIncoming is the job entry point registered with the job manager.
func ImportIncoming(ctx context.Context, app jobs.JobContext) error {
	_, err := Import(ctx, app)
	if err != nil {
		jobs.SendProgress(app, models.ProgressUpdate{
			JobID:    jobs.ImportIncomingJobID,
			Message:  fmt.Sprintf("Import failed: %v", err),
			Progress: 100,
			Done:     true,
		})
	}
	return err
}

// Import processes every archive waiting in the incoming folder. Only High
// and Medium confidence results are filed: they are moved under the library
// path and stored. Anything else is first retried through the configured
// metadata provider and otherwise stays in incoming for a human to look at.
//
// Cancelling ctx stops the batch before the next file; files already
// processed are still filed and the cancellation is returned.
func Import(ctx context.Context, app jobs.JobContext) (models.BatchStats, error) {
	cfg := app.Config()
	jobID := jobs.ImportIncomingJobID

	files, err := library.DiscoverIncoming(cfg.Incoming.Path)
	if err != nil {
		return models.BatchStats{}, err
	}
	kb, err := app.KnowledgeBase()
	if err != nil {
		return models.BatchStats{}, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	jobs.SendProgress(app, models.ProgressUpdate{
		JobID:   jobID,
		Message: fmt.Sprintf("Found %d file(s) in incoming", len(files)),
		Total:   len(files),
	})

	coordinator := processor.NewBatchCoordinator(processor.New(kb), cfg.BatchDelay())
	results := coordinator.RunBatch(ctx, files, func(processed, total int, label string) {
		progress := 100.0
		if total > 0 {
			// Leave headroom for the filing step.
			progress = float64(processed) / float64(total) * 90
		}
		jobs.SendProgress(app, models.ProgressUpdate{
			JobID:     jobID,
			Message:   label,
			Progress:  progress,
			Processed: processed,
			Total:     total,
		})
	})

	st := store.New(app.DB())
	fallback := scraper.New(kb, app.Provider())
	creds := models.Credentials{APIKey: cfg.Scraper.APIKey}
	filed := 0
	for _, file := range files {
		result, ok := results[file.ID]
		if !ok {
			// Not reached before cancellation.
			continue
		}
		if !processor.AutoAccept(result) {
			result = fallback.Retry(ctx, file, result, creds)
			results[file.ID] = result
		}
		if !processor.AutoAccept(result) {
			log.Printf("Needs attention: %s: %s", file.Path, attentionReason(result))
			continue
		}
		if err := fileComic(st, cfg.Library.Path, file, result); err != nil {
			log.Printf("Failed to file %s: %v", file.Path, err)
			continue
		}
		filed++
	}

	stats := processor.GetStats(results)
	jobs.SendProgress(app, models.ProgressUpdate{
		JobID: jobID,
		Message: fmt.Sprintf("Filed %d of %d file(s) (%d high, %d medium, %d low confidence, %d failed)",
			filed, stats.Total, stats.HighConfidence, stats.MediumConfidence, stats.LowConfidence, stats.Failed),
		Progress:  100,
		Processed: stats.Total,
		Total:     stats.Total,
		Done:      true,
	})
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("import cancelled after %d of %d file(s): %w", len(results), len(files), err)
	}
	return stats, nil
}

func attentionReason(result models.ProcessingResult) string {
	if result.Success {
		return fmt.Sprintf("%s confidence, not filed automatically", result.Confidence)
	}
	return result.Error
}

// fileComic moves an accepted file into the library and records it.
func fileComic(st *store.Store, libraryPath string, file models.QueueFile, result models.ProcessingResult) error {
	pages, cover, err := library.ParseArchive(file.Path)
	if err != nil {
		return fmt.Errorf("unreadable archive: %w", err)
	}
	thumbnail := ""
	if len(cover) > 0 {
		if thumbnail, err = library.GenerateThumbnail(cover); err != nil {
			log.Printf("Could not generate cover for %s: %v", file.Path, err)
		}
	}

	path := file.Path
	if libraryPath != "" {
		dest := filepath.Join(libraryPath, seriesFolderName(result.Data.Series), filepath.Base(file.Path))
		if moved, err := moveFile(file.Path, dest); err != nil {
			log.Printf("Keeping %s in place: %v", file.Path, err)
		} else {
			path = moved
		}
	}

	_, err = st.CreateComic(path, result, len(pages), thumbnail)
	return err
}

func moveFile(src, dest string) (string, error) {
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("%s already exists", dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := os.Rename(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// seriesFolderName is the library folder a series is filed under.
func seriesFolderName(series string) string {
	if name := util.SanitizeFolderName(series); name != "" {
		return name
	}
	return "Unsorted"
}
