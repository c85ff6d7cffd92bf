// Package module wires up the rollup service as a modkit module
package module

import (
	"admetry/internal/modkit"
	modreg "admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"

	rudom "admetry/internal/services/rollup/domain"
	rurepo "admetry/internal/services/rollup/repo"
	ruservice "admetry/internal/services/rollup/service"
)

// Ports exported by the rollup module
type Ports struct {
	Sync rudom.SyncPort
}

// Module implements modkit.Module for the rollup
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the rollup module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := ruservice.New(
		repokit.TxRunner(deps.PG),
		rurepo.NewPG(),
		ruservice.Config{
			MaxSyncAttempts: opts.MaxSyncAttempts,
			SpendTolerance:  opts.SpendTolerance,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Sync: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "rollup" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps) {
	modreg.Register("rollup", New(deps).Ports())
}
