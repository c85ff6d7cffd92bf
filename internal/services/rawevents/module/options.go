package module

import (
	"admetry/internal/platform/config"
)

// Options for the raw events module
type Options struct {
	MaxBatch int
}

// FromConfig fills options from environment
// CORE_RAWEVENTS_MAX_BATCH (default 500) bounds rows per upsert statement
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_RAWEVENTS_")
	return Options{
		MaxBatch: n.MayInt("MAX_BATCH", 500),
	}
}
