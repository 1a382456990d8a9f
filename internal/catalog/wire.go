//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/stride/stride-backend/internal/catalog/delivery/http"
	"github.com/stride/stride-backend/internal/catalog/domain"
	"github.com/stride/stride-backend/internal/catalog/repository"
	"github.com/stride/stride-backend/internal/catalog/usecase/query"
	userrepository "github.com/stride/stride-backend/internal/user/repository"
)

// ProvideCatalogRepository provides the catalog repository
func ProvideCatalogRepository(db *gorm.DB) domain.CatalogRepository {
	return repository.NewGormCatalogRepository(db)
}

// ProvideFavoriteSource provides the favorites side of the complete sneaker view
func ProvideFavoriteSource(db *gorm.DB) query.FavoriteSource {
	return userrepository.NewGormUserRepository(db)
}

// Query Handlers Providers
func ProvideListSneakersHandler(repo domain.CatalogRepository) *query.ListSneakersHandler {
	return query.NewListSneakersHandler(repo)
}

func ProvideListBrandsHandler(repo domain.CatalogRepository) *query.ListBrandsHandler {
	return query.NewListBrandsHandler(repo)
}

func ProvideListRetailersHandler(repo domain.CatalogRepository) *query.ListRetailersHandler {
	return query.NewListRetailersHandler(repo)
}

func ProvidePriceHistoryHandler(repo domain.CatalogRepository) *query.PriceHistoryHandler {
	return query.NewPriceHistoryHandler(repo)
}

func ProvideSneakerCompleteHandler(repo domain.CatalogRepository, favorites query.FavoriteSource) *query.SneakerCompleteHandler {
	return query.NewSneakerCompleteHandler(repo, favorites)
}

// QueryHandlers is a struct that holds all query handlers
type QueryHandlers struct {
	ListSneakersHandler    *query.ListSneakersHandler
	ListBrandsHandler      *query.ListBrandsHandler
	ListRetailersHandler   *query.ListRetailersHandler
	PriceHistoryHandler    *query.PriceHistoryHandler
	SneakerCompleteHandler *query.SneakerCompleteHandler
}

// ProvideQueryHandlers provides all query handlers
func ProvideQueryHandlers(
	listSneakersHandler *query.ListSneakersHandler,
	listBrandsHandler *query.ListBrandsHandler,
	listRetailersHandler *query.ListRetailersHandler,
	priceHistoryHandler *query.PriceHistoryHandler,
	sneakerCompleteHandler *query.SneakerCompleteHandler,
) *QueryHandlers {
	return &QueryHandlers{
		ListSneakersHandler:    listSneakersHandler,
		ListBrandsHandler:      listBrandsHandler,
		ListRetailersHandler:   listRetailersHandler,
		PriceHistoryHandler:    priceHistoryHandler,
		SneakerCompleteHandler: sneakerCompleteHandler,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCatalogRepository,
	ProvideFavoriteSource,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListSneakersHandler,
	ProvideListBrandsHandler,
	ProvideListRetailersHandler,
	ProvidePriceHistoryHandler,
	ProvideSneakerCompleteHandler,
	ProvideQueryHandlers,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.CatalogHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewCatalogHandlerWithDI,
	)
	return nil, nil
}
