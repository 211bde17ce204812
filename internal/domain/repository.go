package domain

import (
	"context"
	"time"
)

// MaxActivityEntries caps every activity log at its most recent entries
const MaxActivityEntries = 7

// DefaultActivityLogKey is used when the caller does not name a log
const DefaultActivityLogKey = "carbonTrackerActivities"

// ActivityEntry is one tracked activity with its footprint
type ActivityEntry struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	CO2  float64   `json:"co2"`
	Date time.Time `json:"date"`
}

// ActivityRepository defines the interface for the append-only activity log.
// The domain defines it, storage packages implement it.
type ActivityRepository interface {
	// Append adds an entry to the log identified by key and drops entries
	// beyond MaxActivityEntries
	Append(ctx context.Context, key string, entry ActivityEntry) error

	// Recent returns up to limit most recent entries, oldest first
	Recent(ctx context.Context, key string, limit int) ([]ActivityEntry, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
