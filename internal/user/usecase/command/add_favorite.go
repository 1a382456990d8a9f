package command

import (
	"fmt"

	"github.com/stride/stride-backend/internal/user/domain"
)

// AddFavoriteCommand represents the command to favorite a sneaker
type AddFavoriteCommand struct {
	UserID    uint
	SneakerID uint
}

// AddFavoriteResult reports whether a new row was inserted
type AddFavoriteResult struct {
	AlreadyExists bool
}

// AddFavoriteHandler handles the add favorite command
type AddFavoriteHandler struct {
	repo domain.UserRepository
}

// NewAddFavoriteHandler creates a new add favorite handler
func NewAddFavoriteHandler(repo domain.UserRepository) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo}
}

// Handle inserts the favorite pair. A duplicate pair is a soft no-op.
func (h *AddFavoriteHandler) Handle(cmd AddFavoriteCommand) (*AddFavoriteResult, error) {
	exists, err := h.repo.IsFavorite(cmd.UserID, cmd.SneakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if exists {
		return &AddFavoriteResult{AlreadyExists: true}, nil
	}

	if err := h.repo.AddFavorite(cmd.UserID, cmd.SneakerID); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return &AddFavoriteResult{}, nil
}
