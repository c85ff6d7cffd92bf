// Package module wires up the raw event store as a modkit module
package module

import (
	"admetry/internal/modkit"
	modreg "admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"

	redom "admetry/internal/services/rawevents/domain"
	rerepo "admetry/internal/services/rawevents/repo"
	reservice "admetry/internal/services/rawevents/service"
)

// Ports exported by the raw events module
type Ports struct {
	Writer redom.WriterPort
}

// Module implements modkit.Module for the raw event store
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the raw events module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := reservice.New(
		repokit.TxRunner(deps.PG),
		rerepo.NewPG(),
		reservice.Config{MaxBatch: opts.MaxBatch},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "rawevents" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps) {
	modreg.Register("rawevents", New(deps).Ports())
}
