package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/Ashutosh-Mohanty/wowb/internal/db"
	"github.com/Ashutosh-Mohanty/wowb/internal/ledger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const memberColumns = `id, gym_id, password_hash, name, phone, age, weight, height, address, amount_paid,
		profile_photo, join_date, plan_duration_days, expiry_date, is_active, notes,
		transformation_photos, supplement_bills, payment_history`

const updateMember = `
	UPDATE members SET
	    password_hash = :password_hash, name = :name, phone = :phone, age = :age,
	    weight = :weight, height = :height, address = :address, amount_paid = :amount_paid,
	    profile_photo = :profile_photo, join_date = :join_date,
	    plan_duration_days = :plan_duration_days, expiry_date = :expiry_date,
	    is_active = :is_active, notes = :notes, transformation_photos = :transformation_photos,
	    supplement_bills = :supplement_bills, payment_history = :payment_history
	WHERE id = :id AND gym_id = :gym_id
`

type repository struct {
	db     *sqlx.DB
	ledger ledger.Repository
}

func NewRepository(conn *sqlx.DB, transactions ledger.Repository) Repository {
	return &repository{db: conn, ledger: transactions}
}

func (r *repository) List(ctx context.Context, tenantID string) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE gym_id = $1 ORDER BY join_date DESC`

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, query, tenantID); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE gym_id = $1 AND id = $2`

	var m Member
	if err := r.db.GetContext(ctx, &m, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByLogin(ctx context.Context, tenantID, key string) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE gym_id = $1 AND (id = $2 OR phone = $2)`

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, query, tenantID, key); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Create(ctx context.Context, m *Member, t *billing.Transaction) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (:id, :gym_id, :password_hash, :name, :phone, :age, :weight, :height, :address, :amount_paid,
		        :profile_photo, :join_date, :plan_duration_days, :expiry_date, :is_active, :notes,
		        :transformation_photos, :supplement_bills, :payment_history)
	`

	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := sqlx.NamedExecContext(ctx, tx, query, m); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrMemberExists
			}
			return fmt.Errorf("insert member: %w", err)
		}
		if err := r.ledger.AppendTx(ctx, tx, t); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		return nil
	})
}

func (r *repository) Update(ctx context.Context, m *Member) error {
	result, err := r.db.NamedExecContext(ctx, updateMember, m)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

func (r *repository) UpdateWithTransaction(ctx context.Context, m *Member, t *billing.Transaction) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.ledger.AppendTx(ctx, tx, t); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		result, err := sqlx.NamedExecContext(ctx, tx, updateMember, m)
		if err != nil {
			return fmt.Errorf("update member: %w", err)
		}
		return requireOneRow(result)
	})
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE gym_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}
	return nil
}
