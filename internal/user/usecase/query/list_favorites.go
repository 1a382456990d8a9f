package query

import (
	"fmt"

	"github.com/stride/stride-backend/internal/user/domain"
)

// ListFavoritesQuery represents the query for a user's favorited sneakers
type ListFavoritesQuery struct {
	UserID uint
}

// ListFavoritesResult is the user's set of favorited sneaker ids
type ListFavoritesResult struct {
	UserID              uint   `json:"user_id"`
	FavoritedSneakerIDs []uint `json:"favorited_sneaker_ids"`
}

// ListFavoritesHandler handles the list favorites query
type ListFavoritesHandler struct {
	repo domain.UserRepository
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.UserRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle returns the favorited sneaker ids for the user
func (h *ListFavoritesHandler) Handle(query ListFavoritesQuery) (*ListFavoritesResult, error) {
	ids, err := h.repo.ListFavoriteSneakerIDs(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return &ListFavoritesResult{UserID: query.UserID, FavoritedSneakerIDs: ids}, nil
}
