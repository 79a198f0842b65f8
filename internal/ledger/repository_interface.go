package ledger

import (
	"context"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/jmoiron/sqlx"
)

// Repository is append-only: transactions are never updated or deleted.
type Repository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]billing.Transaction, error)
	ListByMember(ctx context.Context, tenantID, memberID string) ([]billing.Transaction, error)
	Append(ctx context.Context, t *billing.Transaction) error
	// AppendTx records t as part of a caller-owned database transaction.
	AppendTx(ctx context.Context, tx *sqlx.Tx, t *billing.Transaction) error
}
