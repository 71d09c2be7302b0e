package handler

import (
	"context"

	"github.com/deppfellow/commerce/internal/featureflag"
	"github.com/deppfellow/commerce/internal/model"
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
	"github.com/deppfellow/commerce/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	defaultCurrencyLimit = 20
	maxCurrencyLimit     = 100
)

type CurrencyHandler struct {
	Handler
	currencies *service.CurrencyService
	tx         repository.Transactor
}

func NewCurrencyHandler(s *server.Server, services *service.Services) *CurrencyHandler {
	return &CurrencyHandler{
		Handler:    NewHandler(s),
		currencies: services.Currency,
		tx:         services.Tx,
	}
}

// UpdateCurrencyRequest is the body of POST /admin/currencies/:code.
//
// includes_tax is only accepted while tax_inclusive_pricing is enabled.
type UpdateCurrencyRequest struct {
	Code        string                  `param:"code" json:"-" validate:"required"`
	IncludesTax validation.OptionalBool `json:"includes_tax"`
}

func (r *UpdateCurrencyRequest) Validate(flags featureflag.Flags) error {
	if err := validation.GateField(flags, featureflag.TaxInclusivePricing, "includes_tax", r.IncludesTax.Present); err != nil {
		return err
	}
	if r.IncludesTax.Invalid {
		return validation.CustomValidationErrors{{Field: "includes_tax", Message: "must be a boolean value"}}
	}
	return validation.Struct(r)
}

type CurrencyResponse struct {
	Currency *model.Currency `json:"currency"`
}

// Update sets the mutable fields of a currency inside one transaction.
func (h *CurrencyHandler) Update(c echo.Context, req *UpdateCurrencyRequest) (*CurrencyResponse, error) {
	update := model.CurrencyUpdate{IncludesTax: req.IncludesTax.Ptr()}

	var currency *model.Currency
	err := h.tx.InTx(c.Request().Context(), func(ctx context.Context, tx repository.DBTX) error {
		var err error
		currency, err = h.currencies.WithTx(tx).Update(ctx, req.Code, update)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CurrencyResponse{Currency: currency}, nil
}

type ListCurrenciesRequest struct {
	Q      string `query:"q"`
	Code   string `query:"code"`
	Offset int    `query:"offset" validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
}

func (r *ListCurrenciesRequest) Validate(featureflag.Flags) error {
	return validation.Struct(r)
}

type ListCurrenciesResponse struct {
	Currencies []model.Currency `json:"currencies"`
	Count      int              `json:"count"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
}

func (h *CurrencyHandler) List(c echo.Context, req *ListCurrenciesRequest) (*ListCurrenciesResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultCurrencyLimit
	}
	limit = min(limit, maxCurrencyLimit)

	currencies, count, err := h.currencies.List(c.Request().Context(), model.CurrencyFilter{
		Q:      req.Q,
		Code:   req.Code,
		Offset: req.Offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListCurrenciesResponse{
		Currencies: currencies,
		Count:      count,
		Offset:     req.Offset,
		Limit:      limit,
	}, nil
}
