package model

import "time"

// Customer is a storefront customer. Guests share the table with
// registered customers and are told apart by HasAccount.
type Customer struct {
	ID                string         `db:"id" json:"id"`
	Email             string         `db:"email" json:"email"`
	FirstName         *string        `db:"first_name" json:"first_name"`
	LastName          *string        `db:"last_name" json:"last_name"`
	Phone             *string        `db:"phone" json:"phone"`
	HasAccount        bool           `db:"has_account" json:"has_account"`
	PasswordHash      *string        `db:"password_hash" json:"-"`
	Metadata          map[string]any `db:"metadata" json:"metadata"`
	ShippingAddresses []Address      `db:"-" json:"shipping_addresses"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt         *time.Time     `db:"deleted_at" json:"deleted_at"`
}

// Address is a postal address owned by a customer.
type Address struct {
	ID          string     `db:"id" json:"id"`
	CustomerID  *string    `db:"customer_id" json:"customer_id"`
	Company     *string    `db:"company" json:"company"`
	FirstName   *string    `db:"first_name" json:"first_name"`
	LastName    *string    `db:"last_name" json:"last_name"`
	Address1    *string    `db:"address_1" json:"address_1"`
	Address2    *string    `db:"address_2" json:"address_2"`
	City        *string    `db:"city" json:"city"`
	CountryCode *string    `db:"country_code" json:"country_code"`
	Province    *string    `db:"province" json:"province"`
	PostalCode  *string    `db:"postal_code" json:"postal_code"`
	Phone       *string    `db:"phone" json:"phone"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at"`
}
