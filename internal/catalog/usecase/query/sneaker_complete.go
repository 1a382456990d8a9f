package query

import (
	"fmt"

	"github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
)

// recentLimit caps the price points and favoriting records attached to a
// complete sneaker response
const recentLimit = 5

// SneakerCompleteQuery represents the query for the full relationship
// breakdown of a single sneaker
type SneakerCompleteQuery struct {
	SneakerID uint
}

// FavoriteSource provides the favorites side of the breakdown
type FavoriteSource interface {
	FavoritesForSneaker(sneakerID uint, limit int) ([]userdomain.Favorite, error)
	CountFavoritesForSneaker(sneakerID uint) (int64, error)
}

// SneakerEntity is the sneaker's own attributes
type SneakerEntity struct {
	SneakerID      uint    `json:"sneaker_id"`
	Name           string  `json:"name"`
	SKU            string  `json:"sku"`
	ReleaseDate    string  `json:"release_date,omitempty"`
	Colorway       string  `json:"colorway,omitempty"`
	AvailableSizes string  `json:"available_sizes,omitempty"`
	Price          float64 `json:"price"`
	Ratings        *int    `json:"ratings"`
	BrandID        uint    `json:"brand_id"`
}

// BrandEntity is the related brand
type BrandEntity struct {
	BrandID    uint   `json:"brand_id"`
	Name       string `json:"name"`
	Website    string `json:"website,omitempty"`
	RetailerID uint   `json:"retailer_id"`
}

// RetailerEntity is the retailer reached through the brand
type RetailerEntity struct {
	RetailerID uint   `json:"retailer_id"`
	Name       string `json:"name"`
	Location   string `json:"location,omitempty"`
	Website    string `json:"website,omitempty"`
}

// MadeByRelationship describes the sneaker -> brand edge
type MadeByRelationship struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Constraint  string      `json:"constraint"`
	Brand       BrandEntity `json:"entity_brand"`
}

// SoldByRelationship describes the brand -> retailer edge
type SoldByRelationship struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Constraint  string         `json:"constraint"`
	Note        string         `json:"note"`
	Retailer    RetailerEntity `json:"entity_retailer"`
}

// PricedRelationship describes the sneaker -> price history edge
type PricedRelationship struct {
	Type         string                `json:"type"`
	Description  string                `json:"description"`
	Constraint   string                `json:"constraint"`
	Note         string                `json:"note"`
	TotalRecords int64                 `json:"total_records"`
	LatestPrices []domain.PriceHistory `json:"latest_prices"`
}

// FavoritesRelationship describes the user <-> sneaker junction
type FavoritesRelationship struct {
	Type            string                `json:"type"`
	Description     string                `json:"description"`
	Implementation  string                `json:"implementation"`
	Constraint      string                `json:"constraint"`
	TotalFavorited  int64                 `json:"total_users_favorited"`
	FavoritedByUser []userdomain.Favorite `json:"favorited_by_users"`
}

// ConstraintsSummary documents the schema-level constraints in force
type ConstraintsSummary struct {
	PrimaryKeys        string `json:"primary_keys"`
	ForeignKeys        string `json:"foreign_keys"`
	UniqueConstraints  string `json:"unique_constraints"`
	CheckConstraints   string `json:"check_constraints"`
	TotalParticipation string `json:"total_participation"`
	CascadeDelete      string `json:"cascade_delete"`
}

// SneakerCompleteResult is the full relationship breakdown of a sneaker
type SneakerCompleteResult struct {
	Sneaker     SneakerEntity         `json:"entity_sneaker"`
	MadeBy      MadeByRelationship    `json:"relationship_made_by"`
	SoldBy      SoldByRelationship    `json:"relationship_sold_by"`
	Priced      PricedRelationship    `json:"relationship_was_historically_priced"`
	Favorites   FavoritesRelationship `json:"relationship_favorites"`
	Constraints ConstraintsSummary    `json:"constraints_enforced"`
}

// SneakerCompleteHandler handles the complete sneaker query
type SneakerCompleteHandler struct {
	catalog   domain.CatalogRepository
	favorites FavoriteSource
}

// NewSneakerCompleteHandler creates a new complete sneaker handler
func NewSneakerCompleteHandler(catalog domain.CatalogRepository, favorites FavoriteSource) *SneakerCompleteHandler {
	return &SneakerCompleteHandler{catalog: catalog, favorites: favorites}
}

// Handle joins sneaker, brand and retailer, then attaches the most recent
// price points and up to five favoriting records
func (h *SneakerCompleteHandler) Handle(query SneakerCompleteQuery) (*SneakerCompleteResult, error) {
	detail, err := h.catalog.SneakerDetail(query.SneakerID)
	if err != nil {
		return nil, err
	}

	recent, err := h.catalog.RecentPrices(query.SneakerID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	totalPrices, err := h.catalog.CountPrices(query.SneakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count price history: %w", err)
	}

	favs, err := h.favorites.FavoritesForSneaker(query.SneakerID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	totalFavs, err := h.favorites.CountFavoritesForSneaker(query.SneakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	result := &SneakerCompleteResult{
		Sneaker: SneakerEntity{
			SneakerID:      detail.SneakerID,
			Name:           detail.Name,
			SKU:            detail.SKU,
			ReleaseDate:    detail.ReleaseDate,
			Colorway:       detail.Colorway,
			AvailableSizes: detail.AvailableSizes,
			Price:          detail.Price,
			Ratings:        detail.Ratings,
			BrandID:        detail.BrandID,
		},
		MadeBy: MadeByRelationship{
			Type:        "Many-to-One (N:1)",
			Description: "Sneaker -> Brand",
			Constraint:  "NOT NULL on brand_id",
			Brand: BrandEntity{
				BrandID:    detail.BrandID,
				Name:       detail.BrandName,
				Website:    detail.BrandWebsite,
				RetailerID: detail.RetailerID,
			},
		},
		SoldBy: SoldByRelationship{
			Type:        "Many-to-One (N:1)",
			Description: "Brand -> Retailer",
			Constraint:  "TOTAL PARTICIPATION - NOT NULL on brand.retailer_id",
			Note:        "Sneaker inherits retailer through brand (no direct retailer_id on sneaker)",
			Retailer: RetailerEntity{
				RetailerID: detail.RetailerID,
				Name:       detail.RetailerName,
				Location:   detail.RetailerLocation,
				Website:    detail.RetailerWebsite,
			},
		},
		Priced: PricedRelationship{
			Type:         "One-to-Many (1:N)",
			Description:  "Sneaker -> Price History",
			Constraint:   "Price history is a weak/dependent entity",
			Note:         "CASCADE on DELETE - price history removed with its sneaker",
			TotalRecords: totalPrices,
			LatestPrices: recent,
		},
		Favorites: FavoritesRelationship{
			Type:            "Many-to-Many (M:N)",
			Description:     "User <-> Sneaker",
			Implementation:  "Junction table: favorites(user_id, sneaker_id)",
			Constraint:      "Composite primary key (user_id, sneaker_id)",
			TotalFavorited:  totalFavs,
			FavoritedByUser: favs,
		},
		Constraints: ConstraintsSummary{
			PrimaryKeys:        "All five entities have primary keys",
			ForeignKeys:        "brand_id, retailer_id, sneaker_id, user_id",
			UniqueConstraints:  "sneakers.sku, users.email",
			CheckConstraints:   "sneakers.ratings (1-5)",
			TotalParticipation: "brands.retailer_id NOT NULL",
			CascadeDelete:      "price_history and favorites CASCADE on sneaker delete",
		},
	}

	return result, nil
}
