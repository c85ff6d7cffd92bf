package module

import (
	"admetry/internal/platform/config"
	"admetry/internal/services/rollup/domain"
)

// Options for the rollup module
type Options struct {
	MaxSyncAttempts int
	SpendTolerance  float64
}

// FromConfig fills options from environment
// CORE_ROLLUP_SYNC_ATTEMPTS (default 2) bounds aggregate+verify cycles;
// 2 means one repair pass. This is policy, not a magic constant
// CORE_ROLLUP_SPEND_TOLERANCE (default 0.01) is the spend comparison tolerance
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_ROLLUP_")
	return Options{
		MaxSyncAttempts: n.MayInt("SYNC_ATTEMPTS", 2),
		SpendTolerance:  n.MayFloat64("SPEND_TOLERANCE", domain.SpendTolerance),
	}
}
