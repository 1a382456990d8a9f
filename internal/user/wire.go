//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/stride/stride-backend/internal/user/delivery/http"
	"github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/internal/user/repository"
	"github.com/stride/stride-backend/internal/user/usecase/command"
	"github.com/stride/stride-backend/internal/user/usecase/query"
	"github.com/stride/stride-backend/kafka"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// Command Handlers Providers
func ProvideRegisterUserHandler(repo domain.UserRepository) *command.RegisterUserHandler {
	return command.NewRegisterUserHandler(repo)
}

func ProvideLoginUserHandler(repo domain.UserRepository) *command.LoginUserHandler {
	return command.NewLoginUserHandler(repo)
}

func ProvideAddFavoriteHandler(repo domain.UserRepository) *command.AddFavoriteHandler {
	return command.NewAddFavoriteHandler(repo)
}

func ProvideRemoveFavoriteHandler(repo domain.UserRepository) *command.RemoveFavoriteHandler {
	return command.NewRemoveFavoriteHandler(repo)
}

// Query Handlers Providers
func ProvideListFavoritesHandler(repo domain.UserRepository) *query.ListFavoritesHandler {
	return query.NewListFavoritesHandler(repo)
}

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	RegisterHandler       *command.RegisterUserHandler
	LoginHandler          *command.LoginUserHandler
	AddFavoriteHandler    *command.AddFavoriteHandler
	RemoveFavoriteHandler *command.RemoveFavoriteHandler
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	addFavoriteHandler *command.AddFavoriteHandler,
	removeFavoriteHandler *command.RemoveFavoriteHandler,
) *CommandHandlers {
	return &CommandHandlers{
		RegisterHandler:       registerHandler,
		LoginHandler:          loginHandler,
		AddFavoriteHandler:    addFavoriteHandler,
		RemoveFavoriteHandler: removeFavoriteHandler,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRegisterUserHandler,
	ProvideLoginUserHandler,
	ProvideAddFavoriteHandler,
	ProvideRemoveFavoriteHandler,
	ProvideCommandHandlers,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListFavoritesHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.UserHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewUserHandlerWithDI,
	)
	return nil, nil
}
