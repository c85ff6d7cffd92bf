package domain

import (
	"context"
	"time"
)

// BuilderPort is the public entrypoint exposed by the module
type BuilderPort interface {
	// Build replaces the client's summaries for the ISO week containing
	// weekStart with a fresh per-ad rollup of [weekStart, weekEnd]
	Build(ctx context.Context, clientID string, weekStart, weekEnd time.Time) (BuildStats, error)
}

// StorageRepo encapsulates all storage the weekly rollup performs
type StorageRepo interface {
	// LoadRaw returns raw ad measures for the inclusive range, ordered by
	// date so the last row seen per ad carries the freshest attributes
	LoadRaw(ctx context.Context, clientID string, start, end time.Time) ([]RawAdMeasure, error)

	// DeleteWeek clears the client's summaries for one ISO week
	DeleteWeek(ctx context.Context, clientID string, weekYear, weekNumber int) (int64, error)

	// InsertSummaries bulk-inserts freshly computed summaries
	InsertSummaries(ctx context.Context, rows []Summary) error
}
