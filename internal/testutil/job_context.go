// This file contains shared test utilities for job context mocking.

package testutil

import (
	"database/sql"

	"github.com/vrsandeep/comic-go/internal/config"
	"github.com/vrsandeep/comic-go/internal/jobs"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/websocket"
)

// MockJobContext implements jobs.JobContext for testing. Nil fields are
// returned as-is, except Hub which defaults to an unstarted hub.
type MockJobContext struct {
	Database  *sql.DB
	Cfg       *config.Config
	Hub       *websocket.Hub
	Jobs      *jobs.JobManager
	Knowledge []models.ComicKnowledge
	Metadata  models.MetadataProvider
}

func (m *MockJobContext) DB() *sql.DB                  { return m.Database }
func (m *MockJobContext) Config() *config.Config       { return m.Cfg }
func (m *MockJobContext) JobManager() *jobs.JobManager { return m.Jobs }

func (m *MockJobContext) WsHub() *websocket.Hub {
	if m.Hub == nil {
		m.Hub = websocket.NewHub()
	}
	return m.Hub
}

func (m *MockJobContext) Provider() models.MetadataProvider { return m.Metadata }

func (m *MockJobContext) KnowledgeBase() ([]models.ComicKnowledge, error) {
	return m.Knowledge, nil
}
