// Package modkit provides module wiring and core deps
package modkit

import (
	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/config"
	"admetry/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}

// Module is the common surface for engine modules
// keep this tiny so modules stay decoupled
type Module interface {
	// Ports returns a module specific port set interface for cross wiring
	Ports() any

	// Name returns the module name
	Name() string
}
