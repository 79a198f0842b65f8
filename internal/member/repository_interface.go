package member

import (
	"context"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
)

type Repository interface {
	List(ctx context.Context, tenantID string) ([]Member, error)
	GetByID(ctx context.Context, tenantID, id string) (*Member, error)
	// FindByLogin returns the tenant's members whose id or phone equals key.
	FindByLogin(ctx context.Context, tenantID, key string) ([]Member, error)
	// Create inserts m and its initial transaction atomically.
	Create(ctx context.Context, m *Member, t *billing.Transaction) error
	Update(ctx context.Context, m *Member) error
	// UpdateWithTransaction appends t and replaces m atomically. If either
	// write fails neither is kept.
	UpdateWithTransaction(ctx context.Context, m *Member, t *billing.Transaction) error
	Delete(ctx context.Context, tenantID, id string) error
}
