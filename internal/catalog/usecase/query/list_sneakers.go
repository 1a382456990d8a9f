package query

import (
	"fmt"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

// ListSneakersQuery represents the query for the denormalized sneaker listing
type ListSneakersQuery struct{}

// ListSneakersHandler handles the sneaker listing query
type ListSneakersHandler struct {
	repo domain.CatalogRepository
}

// NewListSneakersHandler creates a new list sneakers handler
func NewListSneakersHandler(repo domain.CatalogRepository) *ListSneakersHandler {
	return &ListSneakersHandler{repo: repo}
}

// Handle returns all sneakers joined with their brand, ordered by brand
// name then sneaker name
func (h *ListSneakersHandler) Handle(query ListSneakersQuery) ([]domain.SneakerWithBrand, error) {
	sneakers, err := h.repo.ListSneakersWithBrand()
	if err != nil {
		return nil, fmt.Errorf("failed to list sneakers: %w", err)
	}
	return sneakers, nil
}
