package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/commerce/internal/errs"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/sqlerr"
)

type CustomerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Retrieve loads a customer with its shipping addresses.
func (s *CustomerService) Retrieve(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Customer with id: %s was not found", id), true, nil)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return customer, nil
}

// EmailExists reports whether a registered customer uses email. Guest
// customers do not count.
func (s *CustomerService) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.RegisteredEmailExists(ctx, email)
	if err != nil {
		return false, sqlerr.HandleError(err)
	}
	return exists, nil
}
