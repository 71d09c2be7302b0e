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

type CurrencyService struct {
	repo repository.CurrencyRepository
}

func NewCurrencyService(repo repository.CurrencyRepository) *CurrencyService {
	return &CurrencyService{repo: repo}
}

// WithTx returns a copy of the service bound to tx.
func (s *CurrencyService) WithTx(tx repository.DBTX) *CurrencyService {
	return &CurrencyService{repo: s.repo.WithTx(tx)}
}

func currencyNotFound(code string) error {
	return errs.NewNotFoundError(fmt.Sprintf("Currency with code: %s was not found", code), true, nil)
}

func (s *CurrencyService) RetrieveByCode(ctx context.Context, code string) (*model.Currency, error) {
	currency, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, currencyNotFound(code)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return currency, nil
}

func (s *CurrencyService) List(ctx context.Context, filter model.CurrencyFilter) ([]model.Currency, int, error) {
	currencies, count, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, sqlerr.HandleError(err)
	}
	return currencies, count, nil
}

// Update applies the non-nil fields of update and returns the result.
func (s *CurrencyService) Update(ctx context.Context, code string, update model.CurrencyUpdate) (*model.Currency, error) {
	currency, err := s.repo.Update(ctx, code, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, currencyNotFound(code)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return currency, nil
}
