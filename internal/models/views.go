package models

// CountryView is the read projection of a country, as returned by the API.
// Timestamps and the soft-delete flag are never serialised.
type CountryView struct {
	ID      string `json:"_id"`
	IsoCode string `json:"isoCode"`
	Name    string `json:"name"`
}

// MarketView is the read projection of a market.
type MarketView struct {
	ID              string   `json:"_id"`
	MarketCode      string   `json:"marketCode"`
	Name            string   `json:"name"`
	CountryIsoCodes []string `json:"countryIsoCodes"`
}

// TransactionView is the read projection of a transaction.
type TransactionView struct {
	ID               string `json:"_id"`
	TransactionDate  string `json:"transactionDate"`
	ProductReference string `json:"productReference"`
	CountryIsoCode   string `json:"countryIsoCode"`
	TransactionCode  int    `json:"transactionCode"`
	Unit             int    `json:"unit"`
}

// TransactionSummary is the filtered listing plus the two running totals.
// Totals are zero when nothing matches.
type TransactionSummary struct {
	Transactions []TransactionView `json:"transactions"`
	SalesTotal   int               `json:"salesTotal"`
	ReturnsTotal int               `json:"returnsTotal"`
}

// UserView is returned by register; it never exposes the password hash.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginView is returned by a successful login.
type LoginView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"jwt"`
}
