package ledger

import (
	"context"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/jmoiron/sqlx"
)

const transactionColumns = `id, gym_id, member_id, date, amount, method, recorded_by, category, details`

const insertTransaction = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES (:id, :gym_id, :member_id, :date, :amount, :method, :recorded_by, :category, :details)
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByTenant(ctx context.Context, tenantID string) ([]billing.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gym_id = $1 ORDER BY date DESC`

	txs := []billing.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, tenantID); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) ListByMember(ctx context.Context, tenantID, memberID string) ([]billing.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gym_id = $1 AND member_id = $2 ORDER BY date DESC`

	txs := []billing.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, tenantID, memberID); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) Append(ctx context.Context, t *billing.Transaction) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, insertTransaction, t)
	return err
}

func (r *repository) AppendTx(ctx context.Context, tx *sqlx.Tx, t *billing.Transaction) error {
	_, err := sqlx.NamedExecContext(ctx, tx, insertTransaction, t)
	return err
}
