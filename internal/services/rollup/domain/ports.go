package domain

import (
	"context"
	"time"
)

// SyncPort is the public entrypoint exposed by the module.
// Ingestion calls SyncAndVerify after every raw save; operators can run
// Aggregate/Verify standalone via the repair CLI
type SyncPort interface {
	// Aggregate rebuilds the daily rollups for the inclusive range from
	// raw data alone (delete+recompute, never an incremental patch)
	Aggregate(ctx context.Context, clientID string, start, end time.Time) (AggregateStats, error)

	// Verify independently recomputes leads and spend sums from raw data
	// and compares them date by date against the stored aggregates.
	// Read-only; repair is SyncAndVerify's job
	Verify(ctx context.Context, clientID string, start, end time.Time) (VerifyResult, error)

	// SyncAndVerify runs Aggregate then Verify, repairing at most
	// Config.MaxSyncAttempts-1 times before surfacing a terminal failure
	SyncAndVerify(ctx context.Context, clientID string, start, end time.Time) (SyncResult, error)
}

// StorageRepo encapsulates all storage the rollup performs.
// Raw rows are read-only here; only derived tables are ever rebuilt
type StorageRepo interface {
	// LoadRaw returns the raw measures for the inclusive range
	LoadRaw(ctx context.Context, clientID string, start, end time.Time) ([]RawMeasure, error)

	// DeleteAggregates clears derived rows for the inclusive range
	DeleteAggregates(ctx context.Context, clientID string, start, end time.Time) (int64, error)

	// InsertAggregates bulk-inserts freshly computed rollups
	InsertAggregates(ctx context.Context, rows []DailyAggregate) error

	// RawTotalsByDate sums leads and spend per date straight off raw data,
	// independent of any Go-side aggregation
	RawTotalsByDate(ctx context.Context, clientID string, start, end time.Time) ([]DayTotals, error)

	// AggTotalsByDate reads the same two sums back from the aggregate table
	AggTotalsByDate(ctx context.Context, clientID string, start, end time.Time) ([]DayTotals, error)

	// RecordSyncRun appends a bookkeeping row; failures are the caller's
	// to swallow (bookkeeping must never flip a sync outcome)
	RecordSyncRun(ctx context.Context, run SyncRun) error
}
