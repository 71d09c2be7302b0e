package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/sqlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRepository_GetAndUpdate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCurrencyRepository(pool)
	ctx := context.Background()

	currency, err := repo.GetByCode(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "usd", currency.Code)
	assert.False(t, currency.IncludesTax)

	on := true
	updated, err := repo.Update(ctx, "usd", model.CurrencyUpdate{IncludesTax: &on})
	require.NoError(t, err)
	assert.True(t, updated.IncludesTax)

	unchanged, err := repo.Update(ctx, "usd", model.CurrencyUpdate{})
	require.NoError(t, err)
	assert.True(t, unchanged.IncludesTax)
}

func TestCurrencyRepository_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCurrencyRepository(pool)

	_, err := repo.GetByCode(context.Background(), "xxx")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(context.Background(), "xxx", model.CurrencyUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrencyRepository_List(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCurrencyRepository(pool)
	ctx := context.Background()

	all, count, err := repo.List(ctx, model.CurrencyFilter{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.GreaterOrEqual(t, count, 15)

	byName, count, err := repo.List(ctx, model.CurrencyFilter{Q: "krone", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "dkk", byName[0].Code)

	byCode, count, err := repo.List(ctx, model.CurrencyFilter{Code: "EUR", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "eur", byCode[0].Code)
}

func TestShippingOptionRepository_Delete(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewShippingOptionRepository(pool)
	ctx := context.Background()
	seedShippingOption(t, pool, "so_1")

	option, err := repo.GetByID(ctx, "so_1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", option.Amount.Decimal.String())
	assert.True(t, option.Amount.Valid)

	require.NoError(t, repo.SoftDelete(ctx, "so_1"))

	_, err = repo.GetByID(ctx, "so_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, "so_1"), ErrNotFound)
}

func TestShippingOptionRepository_HasOpenOrderReferences(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewShippingOptionRepository(pool)
	ctx := context.Background()
	seedShippingOption(t, pool, "so_1")
	seedCustomer(t, pool, "cus_1", "ada@example.com", true)

	inUse, err := repo.HasOpenOrderReferences(ctx, "so_1")
	require.NoError(t, err)
	assert.False(t, inUse)

	mustExec(t, pool, `
		INSERT INTO "order" (id, status, customer_id, email, region_id, currency_code)
		VALUES ('order_done', 'completed', 'cus_1', 'ada@example.com', 'reg_1', 'eur'),
		       ('order_open', 'pending', 'cus_1', 'ada@example.com', 'reg_1', 'eur')`)
	mustExec(t, pool, `INSERT INTO shipping_method (id, shipping_option_id, order_id, price) VALUES ('sm_1', 'so_1', 'order_done', 10)`)

	inUse, err = repo.HasOpenOrderReferences(ctx, "so_1")
	require.NoError(t, err)
	assert.False(t, inUse)

	mustExec(t, pool, `INSERT INTO shipping_method (id, shipping_option_id, order_id, price) VALUES ('sm_2', 'so_1', 'order_open', 10)`)

	inUse, err = repo.HasOpenOrderReferences(ctx, "so_1")
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := setupTestDB(t)
	tx := NewTxManager(pool)
	repo := NewShippingOptionRepository(pool)
	ctx := context.Background()
	seedShippingOption(t, pool, "so_1")

	boom := errors.New("boom")
	err := tx.InTx(ctx, func(ctx context.Context, db DBTX) error {
		if err := repo.WithTx(db).SoftDelete(ctx, "so_1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "so_1")
	assert.NoError(t, err, "delete should have been rolled back")
}

func TestCustomerRepository(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCustomerRepository(pool)
	ctx := context.Background()

	seedCustomer(t, pool, "cus_guest", "guest@example.com", false)
	seedCustomer(t, pool, "cus_1", "Ada@Example.com", true)
	mustExec(t, pool, `INSERT INTO address (id, customer_id, city) VALUES ('addr_1', 'cus_1', 'Copenhagen')`)

	exists, err := repo.RegisteredEmailExists(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.RegisteredEmailExists(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.RegisteredEmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	customer, err := repo.GetByID(ctx, "cus_1")
	require.NoError(t, err)
	require.Len(t, customer.ShippingAddresses, 1)
	assert.Equal(t, "Copenhagen", *customer.ShippingAddresses[0].City)

	byEmail, err := repo.GetRegisteredByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", byEmail.ID)

	_, err = repo.GetRegisteredByEmail(ctx, "guest@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	mustExec(t, pool, `
		INSERT INTO "user" (id, email, role, api_token)
		VALUES ('usr_1', 'admin@example.com', 'admin', 'secret-token')`)

	user, err := repo.GetByAPIToken(ctx, "secret-token")
	require.NoError(t, err)
	assert.Equal(t, "usr_1", user.ID)
	assert.Equal(t, model.UserRoleAdmin, user.Role)

	_, err = repo.GetByAPIToken(ctx, "wrong")
	assert.ErrorIs(t, err, ErrNotFound)

	byEmail, err := repo.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "usr_1", byEmail.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.User{ID: "usr_a", Email: "dup@example.com", Role: model.UserRoleMember})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.User{ID: "usr_b", Email: "DUP@example.com", Role: model.UserRoleMember})
	require.Error(t, err)
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))
}
