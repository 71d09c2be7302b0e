package model

// Currency is an ISO 4217 currency. Currencies are seeded by migration and
// only ever updated through the admin API.
type Currency struct {
	Code         string `db:"code" json:"code"`
	Symbol       string `db:"symbol" json:"symbol"`
	SymbolNative string `db:"symbol_native" json:"symbol_native"`
	Name         string `db:"name" json:"name"`
	IncludesTax  bool   `db:"includes_tax" json:"includes_tax"`
}

// CurrencyFilter narrows a currency listing.
type CurrencyFilter struct {
	// Q matches code or name case-insensitively.
	Q      string
	Code   string
	Offset int
	Limit  int
}

// CurrencyUpdate holds the mutable currency fields. Nil means unchanged.
type CurrencyUpdate struct {
	IncludesTax *bool
}
