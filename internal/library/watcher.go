// This file implements a file system watcher for the incoming folder.
// New archives dropped there trigger the import job once things settle.

package library

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vrsandeep/comic-go/internal/jobs"
)

// WatcherService watches the incoming directory and runs the import job
// after a quiet period following the last relevant change.
type WatcherService struct {
	ctx           jobs.JobContext
	watcher       *fsnotify.Watcher
	mu            sync.Mutex
	pending       int
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcherService creates a new file system watcher service.
func NewWatcherService(ctx jobs.JobContext) *WatcherService {
	return &WatcherService{
		ctx:           ctx,
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before importing
		stopChan:      make(chan struct{}),
	}
}

// WithDebounce overrides the quiet period. Used by tests.
func (w *WatcherService) WithDebounce(d time.Duration) *WatcherService {
	w.debounceDelay = d
	return w
}

// Start begins watching the incoming directory, creating it if needed.
func (w *WatcherService) Start() error {
	incomingPath := w.ctx.Config().Incoming.Path
	if err := os.MkdirAll(incomingPath, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	err = filepath.WalkDir(incomingPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Only watch directories (files are watched via their parent directory)
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	log.Printf("File watcher started for incoming folder: %s", incomingPath)
	go w.processEvents()
	return nil
}

// Stop stops the file watcher service.
func (w *WatcherService) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *WatcherService) handleEvent(event fsnotify.Event) {
	// Removals and chmods never bring new work.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	info, err := os.Stat(event.Name)
	if errors.Is(err, fs.ErrNotExist) {
		// fsnotify reports a rename on the old name; the file has left.
		return
	}
	if err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			w.watcher.Add(event.Name)
			w.schedule()
		}
		return
	}

	if IsSupportedArchive(filepath.Base(event.Name)) {
		w.schedule()
	}
}

// schedule (re)arms the debounce timer.
func (w *WatcherService) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending++
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerImport)
}

func (w *WatcherService) triggerImport() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	w.mu.Lock()
	changes := w.pending
	w.mu.Unlock()
	if changes == 0 {
		return
	}

	err := w.ctx.JobManager().RunJob(jobs.ImportIncomingJobID, w.ctx)
	if errors.Is(err, jobs.ErrJobRunning) {
		// Try again once the current job has had time to finish.
		log.Printf("Import already running, retrying watcher trigger in %s", w.debounceDelay)
		w.mu.Lock()
		w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerImport)
		w.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("File watcher could not start import: %v", err)
		return
	}

	log.Printf("File watcher detected %d change(s) in incoming, import started", changes)
	w.mu.Lock()
	w.pending -= changes
	w.mu.Unlock()
}
