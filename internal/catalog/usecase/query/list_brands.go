package query

import (
	"fmt"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

// ListBrandsQuery represents the query to list all brands
type ListBrandsQuery struct{}

// ListBrandsHandler handles the brand listing query
type ListBrandsHandler struct {
	repo domain.CatalogRepository
}

// NewListBrandsHandler creates a new list brands handler
func NewListBrandsHandler(repo domain.CatalogRepository) *ListBrandsHandler {
	return &ListBrandsHandler{repo: repo}
}

// Handle returns all brands unfiltered
func (h *ListBrandsHandler) Handle(query ListBrandsQuery) ([]domain.Brand, error) {
	brands, err := h.repo.ListBrands()
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}
