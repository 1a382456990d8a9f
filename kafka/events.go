package kafka

import "time"

// CatalogSeededEvent is emitted after a successful CSV seeding run
type CatalogSeededEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Retailers   int       `json:"retailers"`
	Brands      int       `json:"brands"`
	Users       int       `json:"users"`
	Sneakers    int       `json:"sneakers"`
	PricePoints int       `json:"price_points"`
	Favorites   int       `json:"favorites"`
	Timestamp   time.Time `json:"timestamp"`
}

// SneakerFavoritedEvent is emitted when a user favorites or unfavorites a sneaker
type SneakerFavoritedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	SneakerID uint      `json:"sneaker_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceUpdatedEvent carries an ad-hoc price observation for a sneaker.
// Consuming it appends a new price history row.
type PriceUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SneakerID uint      `json:"sneaker_id"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCatalogSeeded      = "catalog.seeded"
	EventTypeSneakerFavorited   = "sneaker.favorited"
	EventTypeSneakerUnfavorited = "sneaker.unfavorited"
	EventTypePriceUpdated       = "price.updated"
)

// Kafka topics
const (
	TopicCatalogSeeded    = "catalog-seeded"
	TopicSneakerFavorited = "sneaker-favorited"
	TopicPriceUpdated     = "price-updated"
)
