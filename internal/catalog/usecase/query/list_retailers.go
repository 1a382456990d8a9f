package query

import (
	"fmt"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

// ListRetailersQuery represents the query to list all retailers
type ListRetailersQuery struct{}

// ListRetailersHandler handles the retailer listing query
type ListRetailersHandler struct {
	repo domain.CatalogRepository
}

// NewListRetailersHandler creates a new list retailers handler
func NewListRetailersHandler(repo domain.CatalogRepository) *ListRetailersHandler {
	return &ListRetailersHandler{repo: repo}
}

// Handle returns all retailers unfiltered
func (h *ListRetailersHandler) Handle(query ListRetailersQuery) ([]domain.Retailer, error) {
	retailers, err := h.repo.ListRetailers()
	if err != nil {
		return nil, fmt.Errorf("failed to list retailers: %w", err)
	}
	return retailers, nil
}
