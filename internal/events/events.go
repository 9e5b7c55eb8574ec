package events

import "time"

// Event types
const (
	CountryCreated = "country.created"
	CountryUpdated = "country.updated"
	CountryDeleted = "country.deleted"

	MarketCreated = "market.created"
	MarketUpdated = "market.updated"
	MarketDeleted = "market.deleted"

	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	RegistryEventsStream    = "registry.events"
	TransactionEventsStream = "transaction.events"
)

// eventField is the stream entry field carrying the JSON-encoded event.
const eventField = "event"

// Base event structure
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Registry events
type CountryEvent struct {
	IsoCode string `json:"isoCode"`
	Name    string `json:"name"`
}

type MarketEvent struct {
	MarketCode      string   `json:"marketCode"`
	Name            string   `json:"name"`
	CountryIsoCodes []string `json:"countryIsoCodes"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID   string `json:"transactionId"`
	TransactionDate string `json:"transactionDate"`
	CountryIsoCode  string `json:"countryIsoCode"`
	TransactionCode int    `json:"transactionCode"`
	Unit            int    `json:"unit"`
}

type TransactionDeletedEvent struct {
	TransactionID  string `json:"transactionId"`
	CountryIsoCode string `json:"countryIsoCode"`
}
