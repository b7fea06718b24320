// Package store persists the resolution log: one row per convergence, the
// service's durable record of which seeds players actually land on.
package store

import "time"

// Resolution is one recorded convergence.
type Resolution struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	EntryID         string    `json:"entry_id"`
	MapType         string    `json:"map_type"`
	FactPath        string    `json:"fact_path"`
	FactCount       int       `json:"fact_count"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResolutionsQuery filters and paginates the resolution list.
type ResolutionsQuery struct {
	MapType string
	Page    int
	PerPage int
}

// ResolutionsList is one page of resolutions plus pagination metadata.
type ResolutionsList struct {
	Resolutions []Resolution `json:"resolutions"`
	TotalCount  int          `json:"total_count"`
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
	TotalPages  int          `json:"total_pages"`
}

// EntryCount is a per-seed resolution tally for the popularity listing.
type EntryCount struct {
	EntryID string `json:"entry_id"`
	Count   int    `json:"count"`
}

// DB is the resolution log interface.
type DB interface {
	SaveResolution(r *Resolution) error
	GetResolution(id string) (*Resolution, error)
	ListResolutions(q ResolutionsQuery) (*ResolutionsList, error)
	TopEntries(limit int) ([]EntryCount, error)
	Close() error
}
