// Package module wires up the ingestion coordinator as a modkit module
package module

import (
	"admetry/internal/modkit"
	modreg "admetry/internal/modkit/module"

	cldom "admetry/internal/services/clients/domain"
	indom "admetry/internal/services/ingestion/domain"
	inservice "admetry/internal/services/ingestion/service"
	redom "admetry/internal/services/rawevents/domain"
	rudom "admetry/internal/services/rollup/domain"
)

// Collaborators are the ports the coordinator drives; the caller wires
// them from the other modules and the ads API adapter
type Collaborators struct {
	Directory cldom.DirectoryPort
	Guard     cldom.GuardPort
	Tokens    indom.TokenPort
	Fetcher   indom.FetchPort
	Writer    redom.WriterPort
	Sync      rudom.SyncPort
}

// Ports exported by the ingestion module
type Ports struct {
	Runner indom.RunnerPort
}

// Module implements modkit.Module for ingestion
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the ingestion module
func New(deps modkit.Deps, collab Collaborators) *Module {
	opts := FromConfig(deps.Cfg)

	svc := inservice.New(inservice.Deps{
		Directory: collab.Directory,
		Guard:     collab.Guard,
		Tokens:    collab.Tokens,
		Fetcher:   collab.Fetcher,
		Writer:    collab.Writer,
		Sync:      collab.Sync,
	}, opts.Timezone)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "ingestion" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register convenience: allow others to resolve our ports via registry
func Register(deps modkit.Deps, collab Collaborators) {
	modreg.Register("ingestion", New(deps, collab).Ports())
}
