package domain

import "context"

// WriterPort is the idempotent upsert surface of the raw event store
type WriterPort interface {
	// Save upserts rows by natural key for one client.
	// Empty input is a no-op. Any row failure aborts the whole call;
	// no partial write survives
	Save(ctx context.Context, clientID string, rows []MetricRow) error
}
