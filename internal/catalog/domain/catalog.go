package domain

import (
	"errors"
	"time"
)

var (
	// ErrSneakerNotFound is returned when a sneaker id has no matching
	// sneaker+brand+retailer join result
	ErrSneakerNotFound = errors.New("sneaker not found")

	// ErrEmptySneakerIDs is returned when a price history request names no sneakers
	ErrEmptySneakerIDs = errors.New("no sneaker ids provided")
)

// Retailer represents a store or vendor selling brands
type Retailer struct {
	ID       uint   `json:"retailer_id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:50;not null"`
	Location string `json:"location,omitempty" gorm:"size:50"`
	Website  string `json:"website,omitempty" gorm:"size:100"`

	Brands []Brand `json:"-" gorm:"foreignKey:RetailerID"`
}

func (Retailer) TableName() string {
	return "retailers"
}

// Brand represents a sneaker manufacturer. Every brand is sold by exactly
// one retailer (total participation: retailer_id is NOT NULL).
type Brand struct {
	ID         uint   `json:"brand_id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:50;not null"`
	Website    string `json:"website,omitempty" gorm:"size:100"`
	RetailerID uint   `json:"retailer_id" gorm:"not null;index"`

	Sneakers []Sneaker `json:"-" gorm:"foreignKey:BrandID"`
}

func (Brand) TableName() string {
	return "brands"
}

// Sneaker is the central catalog entity. The retailer is not stored here;
// it is reachable only through the brand.
type Sneaker struct {
	ID             uint    `json:"sneaker_id" gorm:"primaryKey"`
	Name           string  `json:"name" gorm:"size:50;not null"`
	SKU            string  `json:"sku" gorm:"size:20;uniqueIndex;not null"`
	ReleaseDate    string  `json:"release_date,omitempty" gorm:"size:20"`
	Colorway       string  `json:"colorway,omitempty" gorm:"size:50"`
	AvailableSizes string  `json:"available_sizes,omitempty" gorm:"size:50"`
	Price          float64 `json:"price" gorm:"not null"`
	Ratings        *int    `json:"ratings" gorm:"check:ratings >= 1 AND ratings <= 5"`
	BrandID        uint    `json:"brand_id" gorm:"not null;index"`

	History []PriceHistory `json:"-" gorm:"foreignKey:SneakerID;constraint:OnDelete:CASCADE"`
}

func (Sneaker) TableName() string {
	return "sneakers"
}

// PriceHistory tracks price observations over time. It is a weak entity:
// rows are removed when the owning sneaker is deleted.
type PriceHistory struct {
	ID        uint      `json:"price_id" gorm:"primaryKey"`
	SneakerID uint      `json:"sneaker_id" gorm:"not null;index"`
	Price     float64   `json:"price" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}

// SneakerWithBrand is the denormalized listing row: sneaker attributes plus
// the brand name and the brand's retailer id
type SneakerWithBrand struct {
	SneakerID      uint    `json:"sneaker_id"`
	Name           string  `json:"name"`
	SKU            string  `json:"sku"`
	ReleaseDate    string  `json:"release_date,omitempty"`
	Colorway       string  `json:"colorway,omitempty"`
	AvailableSizes string  `json:"available_sizes,omitempty"`
	Price          float64 `json:"price"`
	Ratings        *int    `json:"ratings"`
	BrandID        uint    `json:"brand_id"`
	BrandName      string  `json:"brand_name"`
	RetailerID     uint    `json:"retailer_id"`
}

// PricePoint is a single time-series observation
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	SneakerID uint      `json:"sneaker_id"`
}

// SneakerDetail is the fully joined sneaker -> brand -> retailer row
type SneakerDetail struct {
	SneakerID        uint    `json:"sneaker_id"`
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	Colorway         string  `json:"colorway,omitempty"`
	AvailableSizes   string  `json:"available_sizes,omitempty"`
	Price            float64 `json:"price"`
	Ratings          *int    `json:"ratings"`
	BrandID          uint    `json:"brand_id"`
	BrandName        string  `json:"brand_name"`
	BrandWebsite     string  `json:"brand_website,omitempty"`
	RetailerID       uint    `json:"retailer_id"`
	RetailerName     string  `json:"retailer_name"`
	RetailerLocation string  `json:"retailer_location,omitempty"`
	RetailerWebsite  string  `json:"retailer_website,omitempty"`
}

// CatalogRepository defines the contract for catalog data access
type CatalogRepository interface {
	ListSneakersWithBrand() ([]SneakerWithBrand, error)
	ListBrands() ([]Brand, error)
	ListRetailers() ([]Retailer, error)

	// PriceHistory filters by sneaker id membership and an inclusive
	// timestamp range, ordered by timestamp ascending
	PriceHistory(sneakerIDs []uint, start, end *time.Time) ([]PricePoint, error)

	// SneakerDetail joins sneaker, brand and retailer; returns
	// ErrSneakerNotFound when the join yields no row
	SneakerDetail(id uint) (*SneakerDetail, error)
	RecentPrices(sneakerID uint, limit int) ([]PriceHistory, error)
	CountPrices(sneakerID uint) (int64, error)

	CreatePricePoint(point *PriceHistory) error
	SneakerCount() (int64, error)
}
