// Package repo provides the client directory repository implementation.
package repo

import (
	"context"
	"strings"

	"admetry/internal/modkit/repokit"
	"admetry/internal/services/clients/domain"

	perr "admetry/internal/platform/errors"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the client directory repository
type Storage interface {
	Get(ctx context.Context, clientID string) (domain.Client, error)
	ListActive(ctx context.Context) ([]domain.Client, error)
	SetAuthStatus(ctx context.Context, clientID, status string) error
}

const clientCols = `id, name, is_active, service_period_end,
	COALESCE(external_account_id, ''), external_auth_status`

// Get implements Storage
func (s *pg) Get(ctx context.Context, clientID string) (domain.Client, error) {
	var c domain.Client
	err := s.q.QueryRow(ctx, `
		SELECT `+clientCols+` FROM clients WHERE id = $1
	`, clientID).Scan(&c.ID, &c.Name, &c.IsActive, &c.ServicePeriodEnd, &c.ExternalAccountID, &c.AuthStatus)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return domain.Client{}, perr.NotFoundf("client %q not found", clientID)
		}
		return domain.Client{}, err
	}
	return c, nil
}

// ListActive implements Storage
func (s *pg) ListActive(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+clientCols+` FROM clients WHERE is_active ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive, &c.ServicePeriodEnd, &c.ExternalAccountID, &c.AuthStatus); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetAuthStatus implements Storage
func (s *pg) SetAuthStatus(ctx context.Context, clientID, status string) error {
	ct, err := s.q.Exec(ctx, `
		UPDATE clients SET external_auth_status = $2 WHERE id = $1
	`, clientID, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return perr.NotFoundf("client %q not found", clientID)
	}
	return nil
}
