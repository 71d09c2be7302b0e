// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data. Services that write expose WithTx so a handler can run
// one service call inside one transaction.
package service

import (
	"github.com/deppfellow/commerce/internal/repository"
	"github.com/deppfellow/commerce/internal/server"
)

type Services struct {
	Auth           *AuthService
	Currency       *CurrencyService
	ShippingOption *ShippingOptionService
	Customer       *CustomerService
	Tx             repository.Transactor
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Auth: NewAuthService(
			repos.User,
			repos.Customer,
			s.Config.Auth.JWTSecret,
			s.Config.Auth.TokenTTL,
			s.Metrics.AuthAttempts,
		),
		Currency:       NewCurrencyService(repos.Currency),
		ShippingOption: NewShippingOptionService(repos.ShippingOption),
		Customer:       NewCustomerService(repos.Customer),
		Tx:             repos.Tx,
	}
}
