package models

type ProgressUpdate struct {
	JobID     string  `json:"jobId"`
	Message   string  `json:"message"`
	Progress  float64 `json:"progress"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Done      bool    `json:"done"`
}
