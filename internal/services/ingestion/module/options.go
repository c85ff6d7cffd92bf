package module

import (
	"time"

	"admetry/internal/platform/config"
)

// Options for the ingestion module
type Options struct {
	// Timezone is the ad-reporting timezone the window gate evaluates
	// "today" in
	Timezone *time.Location
}

// FromConfig fills options from environment
// CORE_INGEST_TIMEZONE (default UTC) names an IANA zone
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_INGEST_")
	return Options{
		Timezone: n.MayTimezone("TIMEZONE", time.UTC),
	}
}
