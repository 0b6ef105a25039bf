package jobs

import (
	"github.com/vrsandeep/comic-go/internal/models"
)

// SendProgress broadcasts a job progress update to connected clients.
func SendProgress(ctx JobContext, update models.ProgressUpdate) {
	hub := ctx.WsHub()
	if hub == nil {
		return
	}
	hub.BroadcastJSON(update)
}
