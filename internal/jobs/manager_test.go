package jobs_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/config"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/websocket"
)

type fakeJobContext struct {
	db     *sql.DB
	cfg    *config.Config
	ws     *websocket.Hub
	jobMgr *jobs.JobManager
}

func (f *fakeJobContext) DB() *sql.DB                  { return f.db }
func (f *fakeJobContext) Config() *config.Config       { return f.cfg }
func (f *fakeJobContext) WsHub() *websocket.Hub        { return f.ws }
func (f *fakeJobContext) JobManager() *jobs.JobManager { return f.jobMgr }
func (f *fakeJobContext) KnowledgeBase() ([]models.ComicKnowledge, error) {
	return nil, nil
}
func (f *fakeJobContext) Provider() models.MetadataProvider { return nil }

func newFakeContext() *fakeJobContext {
	ctx := &fakeJobContext{cfg: &config.Config{}, ws: websocket.NewHub()}
	ctx.jobMgr = jobs.NewManager()
	return ctx
}

func noop(context.Context, jobs.JobContext) error { return nil }

// waitIdle blocks until the manager has no running job.
func waitIdle(t *testing.T, mgr *jobs.JobManager) {
	t.Helper()
	require.Eventually(t, func() bool { return !mgr.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestManager_RegisterAndGetStatus(t *testing.T) {
	mgr := jobs.NewManager()
	assert.Empty(t, mgr.GetStatus())

	mgr.Register("zeta", "Zeta", noop)
	mgr.Register("alpha", "Alpha", noop)

	statuses := mgr.GetStatus()
	require.Len(t, statuses, 2)
	assert.Equal(t, "alpha", statuses[0].ID)
	assert.Equal(t, "Alpha", statuses[0].Name)
	assert.Equal(t, jobs.StatusIdle, statuses[0].Status)
	assert.Equal(t, "zeta", statuses[1].ID)

	statuses[0].Status = "tampered"
	assert.Equal(t, jobs.StatusIdle, mgr.GetStatus()[0].Status, "GetStatus must return copies")
}

func TestManager_RunJob(t *testing.T) {
	testCases := []struct {
		name          string
		task          jobs.Task
		expectStatus  string
		expectMessage string
	}{
		{
			name:          "success",
			task:          noop,
			expectStatus:  jobs.StatusSuccess,
			expectMessage: "Job completed successfully.",
		},
		{
			name:          "task error",
			task:          func(context.Context, jobs.JobContext) error { return errors.New("incoming folder unreadable") },
			expectStatus:  jobs.StatusFailed,
			expectMessage: "incoming folder unreadable",
		},
		{
			name:          "panic",
			task:          func(context.Context, jobs.JobContext) error { panic("fail") },
			expectStatus:  jobs.StatusFailed,
			expectMessage: "panicked",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newFakeContext()
			mgr := ctx.jobMgr
			mgr.Register("job", "Job", tc.task)

			require.NoError(t, mgr.RunJob("job", ctx))
			waitIdle(t, mgr)

			status := mgr.GetStatus()[0]
			assert.Equal(t, tc.expectStatus, status.Status)
			assert.Contains(t, status.Message, tc.expectMessage)
			assert.False(t, status.EndTime.Before(status.StartTime))
		})
	}
}

func TestManager_RunJob_AlreadyRunning(t *testing.T) {
	ctx := newFakeContext()
	mgr := ctx.jobMgr
	block := make(chan struct{})
	mgr.Register("slow", "Slow", func(context.Context, jobs.JobContext) error { <-block; return nil })
	mgr.Register("other", "Other", noop)

	require.NoError(t, mgr.RunJob("slow", ctx))
	assert.True(t, mgr.IsRunning())
	assert.ErrorIs(t, mgr.RunJob("slow", ctx), jobs.ErrJobRunning)
	assert.ErrorIs(t, mgr.RunJob("other", ctx), jobs.ErrJobRunning, "only one job runs at a time")

	close(block)
	waitIdle(t, mgr)
	assert.NoError(t, mgr.RunJob("other", ctx))
	waitIdle(t, mgr)
}

func TestManager_RunJob_NotFound(t *testing.T) {
	ctx := newFakeContext()
	err := ctx.jobMgr.RunJob("nojob", ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, jobs.ErrJobRunning)
}

func TestManager_ConcurrentRunJob(t *testing.T) {
	ctx := newFakeContext()
	mgr := ctx.jobMgr
	release := make(chan struct{})
	var count int32
	mgr.Register("job", "Job", func(context.Context, jobs.JobContext) error {
		atomic.AddInt32(&count, 1)
		<-release
		return nil
	})

	var started int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if mgr.RunJob("job", ctx) == nil {
				atomic.AddInt32(&started, 1)
			}
		}()
	}
	wg.Wait()
	close(release)
	waitIdle(t, mgr)

	assert.Equal(t, int32(1), started)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
}

func TestManager_Cancel(t *testing.T) {
	ctx := newFakeContext()
	mgr := ctx.jobMgr
	started := make(chan struct{})
	mgr.Register("import", "Import", func(runCtx context.Context, _ jobs.JobContext) error {
		close(started)
		<-runCtx.Done()
		return runCtx.Err()
	})

	assert.False(t, mgr.Cancel(), "nothing to cancel while idle")

	require.NoError(t, mgr.RunJob("import", ctx))
	<-started
	assert.True(t, mgr.Cancel())
	waitIdle(t, mgr)

	status := mgr.GetStatus()[0]
	assert.Equal(t, jobs.StatusFailed, status.Status)
	assert.Contains(t, status.Message, context.Canceled.Error())

	// The next run gets a fresh context.
	mgr.Register("quick", "Quick", noop)
	require.NoError(t, mgr.RunJob("quick", ctx))
	waitIdle(t, mgr)
	assert.Equal(t, jobs.StatusSuccess, mgr.GetStatus()[1].Status)
}
