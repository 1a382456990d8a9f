package command

import (
	"fmt"

	"github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/pkg/auth"
)

// LoginUserCommand represents the command to authenticate a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginUserResult carries the authenticated user and a signed token
type LoginUserResult struct {
	User  *domain.User
	Token string
}

// LoginUserHandler handles user login
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle verifies credentials and issues a JWT
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginUserResult, error) {
	user, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginUserResult{User: user, Token: token}, nil
}
