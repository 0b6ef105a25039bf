package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/vrsandeep/comic-go/internal/config"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/websocket"
)

// ErrJobRunning is returned when a job is requested while another runs.
var ErrJobRunning = errors.New("a job is already running")

// Job states reported by GetStatus.
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// JobContext is everything a job may touch. core.App implements it.
type JobContext interface {
	DB() *sql.DB
	Config() *config.Config
	WsHub() *websocket.Hub
	JobManager() *JobManager
	// KnowledgeBase loads a fresh knowledge base snapshot for a batch.
	KnowledgeBase() ([]models.ComicKnowledge, error)
	// Provider is the configured metadata provider, or nil.
	Provider() models.MetadataProvider
}

// Task is the body of a job. ctx is cancelled by JobManager.Cancel; a
// returned error marks the run as failed.
type Task func(ctx context.Context, app JobContext) error

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// JobManager runs registered jobs one at a time.
type JobManager struct {
	mu      sync.Mutex
	tasks   map[string]Task
	status  map[string]*JobStatus
	running string
	cancel  context.CancelFunc
}

func NewManager() *JobManager {
	return &JobManager{
		tasks:  make(map[string]Task),
		status: make(map[string]*JobStatus),
	}
}

func (jm *JobManager) Register(id, name string, task Task) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.tasks[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: StatusIdle}
}

// IsRunning reports whether any job is currently running.
func (jm *JobManager) IsRunning() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	return jm.running != ""
}

// RunJob starts the named job in the background. Only one job runs at a
// time; ErrJobRunning is returned while another job is in progress.
func (jm *JobManager) RunJob(id string, app JobContext) error {
	jm.mu.Lock()
	if jm.running != "" {
		jm.mu.Unlock()
		return ErrJobRunning
	}
	task, ok := jm.tasks[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("job '%s' not found", id)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	jm.running = id
	jm.cancel = cancel
	status := jm.status[id]
	status.Status = StatusRunning
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.mu.Unlock()

	log.Printf("Starting job: %s", id)
	go jm.run(runCtx, id, task, status, app)
	return nil
}

// Cancel asks the running job to stop. It reports whether a job was
// running.
func (jm *JobManager) Cancel() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if jm.running == "" {
		return false
	}
	log.Printf("Cancelling job: %s", jm.running)
	jm.cancel()
	return true
}

func (jm *JobManager) run(ctx context.Context, id string, task Task, status *JobStatus, app JobContext) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}

		jm.mu.Lock()
		status.EndTime = time.Now()
		if err != nil {
			log.Printf("Job '%s' failed: %v", id, err)
			status.Status = StatusFailed
			status.Message = err.Error()
		} else {
			status.Status = StatusSuccess
			status.Message = "Job completed successfully."
		}
		jm.running = ""
		jm.cancel()
		jm.cancel = nil
		jm.mu.Unlock()
		log.Printf("Finished job: %s", id)
	}()

	err = task(ctx, app)
}

// GetStatus returns a copy of every registered job's status, ordered by ID.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
