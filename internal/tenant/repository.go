package tenant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const tenantColumns = `id, name, address, city, id_proof, contact_email, password_hash, status,
		created_at, subscription_plan_days, subscription_expiry, terms_and_conditions,
		price_one_month, price_two_months, price_three_months, price_six_months, price_twelve_months,
		subscription_due, last_payment_date`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM gyms ORDER BY created_at DESC`

	tenants := []Tenant{}
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM gyms WHERE id = $1`

	var t Tenant
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	query := `
		INSERT INTO gyms (` + tenantColumns + `)
		VALUES (:id, :name, :address, :city, :id_proof, :contact_email, :password_hash, :status,
		        :created_at, :subscription_plan_days, :subscription_expiry, :terms_and_conditions,
		        :price_one_month, :price_two_months, :price_three_months, :price_six_months, :price_twelve_months,
		        :subscription_due, :last_payment_date)
	`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrTenantExists
		}
		return err
	}
	return nil
}

func (r *repository) Update(ctx context.Context, t *Tenant) error {
	query := `
		UPDATE gyms SET
		    name = :name, address = :address, city = :city, id_proof = :id_proof,
		    contact_email = :contact_email, password_hash = :password_hash, status = :status,
		    created_at = :created_at, subscription_plan_days = :subscription_plan_days,
		    subscription_expiry = :subscription_expiry, terms_and_conditions = :terms_and_conditions,
		    price_one_month = :price_one_month, price_two_months = :price_two_months,
		    price_three_months = :price_three_months, price_six_months = :price_six_months,
		    price_twelve_months = :price_twelve_months, subscription_due = :subscription_due,
		    last_payment_date = :last_payment_date
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

// Delete removes only the gym row. Members and transactions that reference
// it are left untouched.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
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
		return ErrTenantNotFound
	}
	return nil
}
