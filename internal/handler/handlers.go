// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"github.com/deppfellow/commerce/internal/server"
	"github.com/deppfellow/commerce/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Health         *HealthHandler
	OpenAPI        *OpenAPIHandler
	Currency       *CurrencyHandler
	ShippingOption *ShippingOptionHandler
	StoreAuth      *StoreAuthHandler
	AdminAuth      *AdminAuthHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(s),
		OpenAPI:        NewOpenAPIHandler(s),
		Currency:       NewCurrencyHandler(s, services),
		ShippingOption: NewShippingOptionHandler(s, services),
		StoreAuth:      NewStoreAuthHandler(s, services),
		AdminAuth:      NewAdminAuthHandler(s, services),
	}
}
