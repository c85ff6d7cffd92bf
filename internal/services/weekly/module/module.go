// Package module wires up the weekly summary builder as a modkit module
package module

import (
	"admetry/internal/modkit"
	modreg "admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"

	wkdom "admetry/internal/services/weekly/domain"
	wkrepo "admetry/internal/services/weekly/repo"
	wkservice "admetry/internal/services/weekly/service"
)

// Ports exported by the weekly module
type Ports struct {
	Builder wkdom.BuilderPort
}

// Module implements modkit.Module for the weekly summary builder
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the weekly module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := wkservice.New(
		repokit.TxRunner(deps.PG),
		wkrepo.NewPG(),
		wkservice.Config{Grades: opts.Grades},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Builder: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "weekly" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps) {
	modreg.Register("weekly", New(deps).Ports())
}
