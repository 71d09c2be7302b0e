package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture() *repotest.CustomerRepo {
	return repotest.NewCustomerRepo(
		model.Customer{ID: "cus_1", Email: "ada@example.com", HasAccount: true},
		model.Customer{ID: "cus_2", Email: "guest@example.com", HasAccount: false},
	)
}

func TestCustomerService_EmailExists(t *testing.T) {
	svc := NewCustomerService(newCustomerFixture())
	ctx := context.Background()

	exists, err := svc.EmailExists(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.EmailExists(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "guest customers are not registered")

	exists, err = svc.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCustomerService_EmailExistsDatabaseFailure(t *testing.T) {
	repo := newCustomerFixture()
	repo.Err = errors.New("timeout")

	_, err := NewCustomerService(repo).EmailExists(context.Background(), "ada@example.com")
	requireHTTPStatus(t, err, http.StatusInternalServerError)
}

func TestCustomerService_Retrieve(t *testing.T) {
	svc := NewCustomerService(newCustomerFixture())

	customer, err := svc.Retrieve(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", customer.Email)

	_, err = svc.Retrieve(context.Background(), "cus_9")
	requireHTTPStatus(t, err, http.StatusNotFound)
}
