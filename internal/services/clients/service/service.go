// Package service implements the client directory and the service-window
// guard on top of the clients repository
package service

import (
	"context"
	"time"

	"admetry/internal/modkit/repokit"
	"admetry/internal/services/clients/domain"
	"admetry/internal/services/clients/repo"

	perr "admetry/internal/platform/errors"
)

// Service wires TxRunner + Binder into the directory and guard ports
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs the clients service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("clients.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("clients.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder}
}

// Get implements domain.DirectoryPort
func (s *Service) Get(ctx context.Context, clientID string) (domain.Client, error) {
	if clientID == "" {
		return domain.Client{}, perr.InvalidArgf("client id required")
	}
	return s.Binder.Bind(s.DB).Get(ctx, clientID)
}

// ListActive implements domain.DirectoryPort
func (s *Service) ListActive(ctx context.Context) ([]domain.Client, error) {
	return s.Binder.Bind(s.DB).ListActive(ctx)
}

// MarkAuthRequired implements domain.DirectoryPort
func (s *Service) MarkAuthRequired(ctx context.Context, clientID string) error {
	if clientID == "" {
		return perr.InvalidArgf("client id required")
	}
	return s.Binder.Bind(s.DB).SetAuthStatus(ctx, clientID, domain.AuthStatusReauthRequired)
}

// Check implements domain.GuardPort.
// Unknown clients are invalid, not an error: the gate fails closed and
// only surfaces errors it cannot classify (db outage, timeout)
func (s *Service) Check(ctx context.Context, clientID string, today time.Time) (domain.WindowCheck, error) {
	c, err := s.Binder.Bind(s.DB).Get(ctx, clientID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.WindowCheck{Valid: false}, nil
		}
		return domain.WindowCheck{}, err
	}

	if !c.IsActive {
		return domain.WindowCheck{Valid: false, EndDate: c.ServicePeriodEnd}, nil
	}
	if c.ServicePeriodEnd == nil {
		return domain.WindowCheck{Valid: true}, nil
	}

	end := dateOnly(*c.ServicePeriodEnd)
	valid := !dateOnly(today).After(end)
	return domain.WindowCheck{Valid: valid, EndDate: c.ServicePeriodEnd}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
