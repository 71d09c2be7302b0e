package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/jackc/pgx/v5"
)

type ShippingOptionRepository interface {
	WithTx(tx DBTX) ShippingOptionRepository
	GetByID(ctx context.Context, id string) (*model.ShippingOption, error)
	// GetByIDForUpdate also locks the row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*model.ShippingOption, error)
	HasOpenOrderReferences(ctx context.Context, id string) (bool, error)
	SoftDelete(ctx context.Context, id string) error
}

type shippingOptionRepository struct {
	db DBTX
}

func NewShippingOptionRepository(db DBTX) ShippingOptionRepository {
	return &shippingOptionRepository{db: db}
}

func (r *shippingOptionRepository) WithTx(tx DBTX) ShippingOptionRepository {
	return &shippingOptionRepository{db: tx}
}

const shippingOptionSelect = `
	SELECT id, name, region_id, profile_id, provider_id, price_type, amount,
	       is_return, admin_only, metadata, created_at, updated_at, deleted_at
	FROM shipping_option
	WHERE id = $1 AND deleted_at IS NULL`

func (r *shippingOptionRepository) get(ctx context.Context, query, id string) (*model.ShippingOption, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying shipping option %s: %w", id, err)
	}

	option, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.ShippingOption])
	if err != nil {
		return nil, notFound(err)
	}
	return option, nil
}

func (r *shippingOptionRepository) GetByID(ctx context.Context, id string) (*model.ShippingOption, error) {
	return r.get(ctx, shippingOptionSelect, id)
}

func (r *shippingOptionRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.ShippingOption, error) {
	return r.get(ctx, shippingOptionSelect+` FOR UPDATE`, id)
}

// HasOpenOrderReferences reports whether a shipping method on an order that
// is still pending or requires action uses the option.
func (r *shippingOptionRepository) HasOpenOrderReferences(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM shipping_method sm
			JOIN "order" o ON o.id = sm.order_id
			WHERE sm.shipping_option_id = $1
			  AND o.status IN ('pending', 'requires_action')
		)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking order references for shipping option %s: %w", id, err)
	}
	return exists, nil
}

func (r *shippingOptionRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE shipping_option
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting shipping option %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
