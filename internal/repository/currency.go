package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/jackc/pgx/v5"
)

type CurrencyRepository interface {
	WithTx(tx DBTX) CurrencyRepository
	GetByCode(ctx context.Context, code string) (*model.Currency, error)
	List(ctx context.Context, filter model.CurrencyFilter) ([]model.Currency, int, error)
	Update(ctx context.Context, code string, update model.CurrencyUpdate) (*model.Currency, error)
}

type currencyRepository struct {
	db DBTX
}

func NewCurrencyRepository(db DBTX) CurrencyRepository {
	return &currencyRepository{db: db}
}

func (r *currencyRepository) WithTx(tx DBTX) CurrencyRepository {
	return &currencyRepository{db: tx}
}

const currencyColumns = `code, symbol, symbol_native, name, includes_tax`

func (r *currencyRepository) GetByCode(ctx context.Context, code string) (*model.Currency, error) {
	rows, err := r.db.Query(ctx, `SELECT `+currencyColumns+` FROM currency WHERE code = LOWER($1)`, code)
	if err != nil {
		return nil, fmt.Errorf("querying currency %s: %w", code, err)
	}

	currency, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Currency])
	if err != nil {
		return nil, notFound(err)
	}
	return currency, nil
}

func (r *currencyRepository) List(ctx context.Context, filter model.CurrencyFilter) ([]model.Currency, int, error) {
	args := pgx.NamedArgs{
		"q":      filter.Q,
		"code":   filter.Code,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}

	const where = `
		WHERE (@q::text = '' OR code ILIKE '%' || @q || '%' OR name ILIKE '%' || @q || '%')
		  AND (@code::text = '' OR code = LOWER(@code))`

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM currency`+where, args).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("counting currencies: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+currencyColumns+` FROM currency`+where+` ORDER BY code LIMIT @limit OFFSET @offset`,
		args,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing currencies: %w", err)
	}

	currencies, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Currency])
	if err != nil {
		return nil, 0, fmt.Errorf("scanning currencies: %w", err)
	}
	return currencies, count, nil
}

func (r *currencyRepository) Update(ctx context.Context, code string, update model.CurrencyUpdate) (*model.Currency, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE currency
		SET includes_tax = COALESCE(@includes_tax::boolean, includes_tax)
		WHERE code = LOWER(@code)
		RETURNING `+currencyColumns,
		pgx.NamedArgs{"code": code, "includes_tax": update.IncludesTax},
	)
	if err != nil {
		return nil, fmt.Errorf("updating currency %s: %w", code, err)
	}

	currency, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Currency])
	if err != nil {
		return nil, notFound(err)
	}
	return currency, nil
}
