// Package metrics registers the engine's Prometheus collectors.
// Collectors live on the default registry; exposition is the host
// process's concern, not this engine's
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestRuns counts ingestion pipeline runs by outcome
	// outcome: ok | skipped | config_error | auth_error | fetch_error | store_error | sync_error
	IngestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admetry",
		Name:      "ingest_runs_total",
		Help:      "Ingestion pipeline runs by outcome.",
	}, []string{"outcome"})

	// RawRowsUpserted counts raw metric rows written through the upsert path
	RawRowsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admetry",
		Name:      "raw_rows_upserted_total",
		Help:      "Raw ad metric rows upserted.",
	})

	// SyncOutcomes counts sync-and-verify results
	// result: clean | repaired | mismatch
	SyncOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admetry",
		Name:      "sync_outcomes_total",
		Help:      "Aggregate-and-verify outcomes.",
	}, []string{"result"})

	// RepairCycles counts re-aggregation passes triggered by a failed verification
	RepairCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admetry",
		Name:      "repair_cycles_total",
		Help:      "Re-aggregation passes run after a failed verification.",
	})

	// WeeklyBuilds counts weekly summary builds by outcome (ok | error)
	WeeklyBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admetry",
		Name:      "weekly_builds_total",
		Help:      "Weekly summary builds by outcome.",
	}, []string{"outcome"})
)
