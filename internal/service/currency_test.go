package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/commerce/internal/errs"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurrencyFixture() *repotest.CurrencyRepo {
	return repotest.NewCurrencyRepo(
		model.Currency{Code: "usd", Symbol: "$", SymbolNative: "$", Name: "US Dollar"},
	)
}

func requireHTTPStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	return httpErr
}

func TestCurrencyService_UpdateSetsIncludesTax(t *testing.T) {
	svc := NewCurrencyService(newCurrencyFixture())
	includesTax := true

	currency, err := svc.Update(context.Background(), "usd", model.CurrencyUpdate{IncludesTax: &includesTax})
	require.NoError(t, err)
	assert.True(t, currency.IncludesTax)
	assert.Equal(t, "US Dollar", currency.Name)
}

func TestCurrencyService_UpdateWithoutFieldsLeavesCurrency(t *testing.T) {
	svc := NewCurrencyService(newCurrencyFixture())

	currency, err := svc.Update(context.Background(), "usd", model.CurrencyUpdate{})
	require.NoError(t, err)
	assert.False(t, currency.IncludesTax)
}

func TestCurrencyService_UpdateUnknownCode(t *testing.T) {
	svc := NewCurrencyService(newCurrencyFixture())

	_, err := svc.Update(context.Background(), "xyz", model.CurrencyUpdate{})
	httpErr := requireHTTPStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Currency with code: xyz was not found", httpErr.Message)
}

func TestCurrencyService_RetrieveDatabaseFailure(t *testing.T) {
	repo := newCurrencyFixture()
	repo.Err = errors.New("connection refused")

	_, err := NewCurrencyService(repo).RetrieveByCode(context.Background(), "usd")
	requireHTTPStatus(t, err, http.StatusInternalServerError)
}

func TestCurrencyService_List(t *testing.T) {
	currencies, count, err := NewCurrencyService(newCurrencyFixture()).
		List(context.Background(), model.CurrencyFilter{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, currencies, 1)
}
