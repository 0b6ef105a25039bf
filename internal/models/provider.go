package models

import "context"

// ProviderInfo contains static information about a metadata provider.
type ProviderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Credentials are handed to the scraper by the caller.
type Credentials struct {
	APIKey string `json:"api_key"`
}

// ScrapeResult is the outcome of a fallback metadata lookup.
type ScrapeResult struct {
	Success    bool        `json:"success"`
	Confidence Confidence  `json:"confidence,omitempty"`
	Data       *ResultData `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// MetadataProvider defines the contract every external metadata source
// must implement. Lookup is keyed by the exact canonical series name; a
// nil record with a nil error means the source has no entry.
type MetadataProvider interface {
	GetInfo() ProviderInfo
	Lookup(ctx context.Context, series string, creds Credentials) (*ComicKnowledge, string, error)
}
