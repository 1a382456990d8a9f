package command

import (
	"errors"
	"fmt"

	"github.com/stride/stride-backend/internal/user/domain"
)

// RemoveFavoriteCommand represents the command to unfavorite a sneaker
type RemoveFavoriteCommand struct {
	UserID    uint
	SneakerID uint
}

// RemoveFavoriteHandler handles the remove favorite command
type RemoveFavoriteHandler struct {
	repo domain.UserRepository
}

// NewRemoveFavoriteHandler creates a new remove favorite handler
func NewRemoveFavoriteHandler(repo domain.UserRepository) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo}
}

// Handle deletes the favorite pair; a missing pair is ErrFavoriteNotFound
func (h *RemoveFavoriteHandler) Handle(cmd RemoveFavoriteCommand) error {
	err := h.repo.RemoveFavorite(cmd.UserID, cmd.SneakerID)
	if errors.Is(err, domain.ErrFavoriteNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
