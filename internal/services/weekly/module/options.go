package module

import (
	"admetry/internal/core/grade"
	"admetry/internal/platform/config"
)

// Options for the weekly module
type Options struct {
	Grades grade.Thresholds
}

// FromConfig fills options from environment.
// The CPL grade thresholds are currency-unit-specific to the deployment's
// ad market, so each is overridable:
// CORE_WEEKLY_GRADE_S (default 5000) .. CORE_WEEKLY_GRADE_D (default 50000)
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_WEEKLY_")
	d := grade.Defaults()
	return Options{
		Grades: grade.Thresholds{
			S: n.MayFloat64("GRADE_S", d.S),
			A: n.MayFloat64("GRADE_A", d.A),
			B: n.MayFloat64("GRADE_B", d.B),
			C: n.MayFloat64("GRADE_C", d.C),
			D: n.MayFloat64("GRADE_D", d.D),
		},
	}
}
