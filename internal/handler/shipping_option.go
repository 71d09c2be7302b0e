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

type ShippingOptionHandler struct {
	Handler
	options *service.ShippingOptionService
	tx      repository.Transactor
}

func NewShippingOptionHandler(s *server.Server, services *service.Services) *ShippingOptionHandler {
	return &ShippingOptionHandler{
		Handler: NewHandler(s),
		options: services.ShippingOption,
		tx:      services.Tx,
	}
}

type ShippingOptionIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *ShippingOptionIDRequest) Validate(featureflag.Flags) error {
	return validation.Struct(r)
}

type ShippingOptionResponse struct {
	ShippingOption *model.ShippingOption `json:"shipping_option"`
}

func (h *ShippingOptionHandler) Get(c echo.Context, req *ShippingOptionIDRequest) (*ShippingOptionResponse, error) {
	option, err := h.options.Retrieve(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &ShippingOptionResponse{ShippingOption: option}, nil
}

// Delete removes a shipping option inside one transaction and
// acknowledges it.
func (h *ShippingOptionHandler) Delete(c echo.Context, req *ShippingOptionIDRequest) (*model.DeleteResponse, error) {
	err := h.tx.InTx(c.Request().Context(), func(ctx context.Context, tx repository.DBTX) error {
		return h.options.WithTx(tx).Delete(ctx, req.ID)
	})
	if err != nil {
		return nil, err
	}

	return &model.DeleteResponse{
		ID:      req.ID,
		Object:  model.ObjectShippingOption,
		Deleted: true,
	}, nil
}
