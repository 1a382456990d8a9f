package query

import (
	"fmt"
	"time"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

// PriceHistoryQuery represents the query for price history of selected
// sneakers, optionally bounded by an inclusive timestamp range
type PriceHistoryQuery struct {
	SneakerIDs []uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// PriceHistoryHandler handles the price history query
type PriceHistoryHandler struct {
	repo domain.CatalogRepository
}

// NewPriceHistoryHandler creates a new price history handler
func NewPriceHistoryHandler(repo domain.CatalogRepository) *PriceHistoryHandler {
	return &PriceHistoryHandler{repo: repo}
}

// Handle returns price points for the requested sneakers ordered by
// timestamp ascending. An empty id list is rejected.
func (h *PriceHistoryHandler) Handle(query PriceHistoryQuery) ([]domain.PricePoint, error) {
	if len(query.SneakerIDs) == 0 {
		return nil, domain.ErrEmptySneakerIDs
	}

	points, err := h.repo.PriceHistory(query.SneakerIDs, query.StartDate, query.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	return points, nil
}
