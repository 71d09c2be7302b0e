package repository

import (
	"github.com/deppfellow/commerce/internal/server"
)

// Repositories groups every repository so services can be wired from a
// single value.
type Repositories struct {
	Currency       CurrencyRepository
	ShippingOption ShippingOptionRepository
	Customer       CustomerRepository
	User           UserRepository
	Tx             Transactor
}

// NewRepositories builds the pgx repositories over the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Currency:       NewCurrencyRepository(pool),
		ShippingOption: NewShippingOptionRepository(pool),
		Customer:       NewCustomerRepository(pool),
		User:           NewUserRepository(pool),
		Tx:             NewTxManager(pool),
	}
}
