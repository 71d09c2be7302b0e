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

var shippingOptionInUseCode = "SHIPPING_OPTION_IN_USE"

type ShippingOptionService struct {
	repo repository.ShippingOptionRepository
}

func NewShippingOptionService(repo repository.ShippingOptionRepository) *ShippingOptionService {
	return &ShippingOptionService{repo: repo}
}

// WithTx returns a copy of the service bound to tx.
func (s *ShippingOptionService) WithTx(tx repository.DBTX) *ShippingOptionService {
	return &ShippingOptionService{repo: s.repo.WithTx(tx)}
}

func shippingOptionNotFound(id string) error {
	return errs.NewNotFoundError(fmt.Sprintf("Shipping option with id: %s was not found", id), true, nil)
}

func (s *ShippingOptionService) Retrieve(ctx context.Context, id string) (*model.ShippingOption, error) {
	option, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shippingOptionNotFound(id)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return option, nil
}

// Delete soft deletes the option. It fails with 404 when the option does
// not exist (or was already deleted) and 409 while an open order uses it.
//
// The row is locked first so a concurrent order cannot start using the
// option between the check and the delete.
func (s *ShippingOptionService) Delete(ctx context.Context, id string) error {
	_, err := s.repo.GetByIDForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return shippingOptionNotFound(id)
	}
	if err != nil {
		return sqlerr.HandleError(err)
	}

	inUse, err := s.repo.HasOpenOrderReferences(ctx, id)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if inUse {
		return errs.NewConflictError(
			fmt.Sprintf("Shipping option with id: %s is used by an open order and cannot be deleted", id),
			true, &shippingOptionInUseCode)
	}

	err = s.repo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return shippingOptionNotFound(id)
	}
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}
