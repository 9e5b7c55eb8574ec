package models

import "time"

// Transaction codes. A transaction either records a sale or a return.
const (
	TransactionSale     = 0
	TransactionReturned = 1
)

type Country struct {
	ID        string    `json:"_id"`
	IsoCode   string    `json:"isoCode"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Market struct {
	ID              string    `json:"_id"`
	MarketCode      string    `json:"marketCode"`
	Name            string    `json:"name"`
	CountryIsoCodes []string  `json:"countryIsoCodes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Transaction struct {
	ID               string    `json:"_id"`
	TransactionDate  string    `json:"transactionDate"`
	ProductReference string    `json:"productReference"`
	CountryIsoCode   string    `json:"countryIsoCode"`
	TransactionCode  int       `json:"transactionCode"`
	Unit             int       `json:"unit"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AuthToken    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
