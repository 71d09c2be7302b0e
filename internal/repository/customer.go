package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	// GetByID loads a customer with its shipping addresses.
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	GetRegisteredByEmail(ctx context.Context, email string) (*model.Customer, error)
	RegisteredEmailExists(ctx context.Context, email string) (bool, error)
}

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, email, first_name, last_name, phone, has_account, password_hash,
	metadata, created_at, updated_at, deleted_at`

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+customerColumns+` FROM customer WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, fmt.Errorf("querying customer %s: %w", id, err)
	}

	customer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Customer])
	if err != nil {
		return nil, notFound(err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, customer_id, company, first_name, last_name, address_1, address_2,
		       city, country_code, province, postal_code, phone, created_at, updated_at, deleted_at
		FROM address
		WHERE customer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("querying addresses for customer %s: %w", id, err)
	}

	customer.ShippingAddresses, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Address])
	if err != nil {
		return nil, fmt.Errorf("scanning addresses for customer %s: %w", id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetRegisteredByEmail(ctx context.Context, email string) (*model.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customer
		WHERE LOWER(email) = LOWER($1) AND has_account AND deleted_at IS NULL`, email)
	if err != nil {
		return nil, fmt.Errorf("querying customer by email: %w", err)
	}

	customer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Customer])
	if err != nil {
		return nil, notFound(err)
	}
	return customer, nil
}

func (r *customerRepository) RegisteredEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM customer
			WHERE LOWER(email) = LOWER($1) AND has_account AND deleted_at IS NULL
		)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking customer email: %w", err)
	}
	return exists, nil
}
