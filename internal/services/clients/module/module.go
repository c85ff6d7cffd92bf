// Package module wires up the clients service as a modkit module
package module

import (
	"admetry/internal/modkit"
	modreg "admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"

	cldom "admetry/internal/services/clients/domain"
	clrepo "admetry/internal/services/clients/repo"
	clservice "admetry/internal/services/clients/service"
)

// Ports exported by the clients module
type Ports struct {
	Directory cldom.DirectoryPort
	Guard     cldom.GuardPort
}

// Module implements modkit.Module for the client directory
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the clients module
func New(deps modkit.Deps) *Module {
	svc := clservice.New(repokit.TxRunner(deps.PG), clrepo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{Directory: svc, Guard: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "clients" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps) {
	modreg.Register("clients", New(deps).Ports())
}
