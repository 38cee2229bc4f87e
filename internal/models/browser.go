// Package models contains data structures shared by services and handlers
package models

import "time"

// ObjectRecord is one listed object with display metadata.
// Records are built per listing call and never cached.
type ObjectRecord struct {
	Key           string    `json:"key"`
	Size          int64     `json:"size"`
	SizeMB        float64   `json:"size_mb"`
	FormattedSize string    `json:"formatted_size"`
	LastModified  time.Time `json:"last_modified"`
}

// SearchResult is the outcome of one folder search.
type SearchResult struct {
	Bucket string         `json:"bucket"`
	Folder string         `json:"folder"`
	Query  string         `json:"query"`
	Files  []ObjectRecord `json:"files"`
}

// Download is a fully fetched object body.
type Download struct {
	Key         string
	ContentType string
	Data        []byte
}
