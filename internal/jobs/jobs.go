package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// ImportIncomingJobID processes everything waiting in the incoming folder.
const ImportIncomingJobID = "import-incoming"

// StartJobs starts the background job scheduler. The returned scheduler is
// nil when no job is scheduled.
func StartJobs(app JobContext) *gocron.Scheduler {
	interval := app.Config().ScanInterval
	if interval <= 0 {
		log.Println("Scan interval is 0, scheduled import is disabled.")
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	log.Printf("Scheduling job: '%s' to run every %d minutes.", ImportIncomingJobID, interval)
	_, err := s.Every(interval).Minutes().WaitForSchedule().Do(func() {
		log.Println("Scheduler is triggering job:", ImportIncomingJobID)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		if err := app.JobManager().RunJob(ImportIncomingJobID, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", ImportIncomingJobID, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", ImportIncomingJobID, err)
		return nil
	}

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}
