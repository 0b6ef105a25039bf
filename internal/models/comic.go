// This file defines the core data structures (models) for the comic library
// and the metadata inference pipeline that fills it.

package models

import "time"

// Confidence grades how much a processing result can be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ParsedComicInfo is the best guess extracted from a file path.
// A nil field means the parser found nothing for it.
type ParsedComicInfo struct {
	Series *string `json:"series"`
	Issue  *string `json:"issue"`
	Year   *int    `json:"year"`
	Volume *string `json:"volume"`
}

// KnowledgeVolume is one volume run of a known series.
type KnowledgeVolume struct {
	Volume string `json:"volume"`
	Year   int    `json:"year"`
}

// ComicKnowledge is one entry of the local knowledge base.
type ComicKnowledge struct {
	Series    string            `json:"series"`
	Publisher string            `json:"publisher"`
	StartYear int               `json:"startYear"`
	Volumes   []KnowledgeVolume `json:"volumes"`
}

// KnowledgeMatch is a knowledge base entry considered a reasonable match
// for a parsed filename.
type KnowledgeMatch struct {
	Series     string     `json:"series"`
	Publisher  string     `json:"publisher"`
	Volume     string     `json:"volume"`
	StartYear  int        `json:"startYear"`
	Confidence Confidence `json:"confidence"`
}

// ResultData holds the fields accepted for a comic.
type ResultData struct {
	Series    string `json:"series"`
	Issue     string `json:"issue"`
	Year      int    `json:"year"`
	Publisher string `json:"publisher"`
	Volume    string `json:"volume"`
	Summary   string `json:"summary"`
}

// ProcessingResult is the outcome of processing a single file.
type ProcessingResult struct {
	Success     bool             `json:"success"`
	Confidence  Confidence       `json:"confidence"`
	Data        *ResultData      `json:"data,omitempty"`
	Error       string           `json:"error,omitempty"`
	Suggestions []KnowledgeMatch `json:"suggestions,omitempty"`
}

// QueueFile is a file waiting to be processed.
type QueueFile struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	Name          string `json:"name"`
	PublisherHint string `json:"publisher_hint,omitempty"`
}

// BatchStats summarises the results of a batch run.
type BatchStats struct {
	Total            int `json:"total"`
	Successful       int `json:"successful"`
	Failed           int `json:"failed"`
	HighConfidence   int `json:"highConfidence"`
	MediumConfidence int `json:"mediumConfidence"`
	LowConfidence    int `json:"lowConfidence"`
}

// Comic is a comic stored in the library.
type Comic struct {
	ID         int64      `json:"id"`
	Path       string     `json:"path"`
	Series     string     `json:"series"`
	Issue      string     `json:"issue"`
	Year       int        `json:"year"`
	Publisher  string     `json:"publisher"`
	Volume     string     `json:"volume"`
	Summary    string     `json:"summary"`
	Confidence Confidence `json:"confidence"`
	PageCount  int        `json:"page_count"`
	Thumbnail  string     `json:"thumbnail,omitempty"`
	Rating     int        `json:"rating"`
	Read       bool       `json:"read"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"-"`
}

// Page represents a single page within a comic archive.
type Page struct {
	FileName string `json:"file_name"`
	Index    int    `json:"index"`
}
