package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListSneakers godoc
// @Summary List all sneakers
// @Description Get all sneakers with brand information, ordered by brand name then sneaker name
// @Tags Sneakers
// @Produce json
// @Success 200 {array} domain.SneakerWithBrand
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/sneakers [get]
func (h *CatalogHandler) ListSneakersDoc() {}

// GetPriceHistory godoc
// @Summary Price history for selected sneakers
// @Description Get price points for the given sneaker ids within an optional inclusive date range
// @Tags Sneakers
// @Accept json
// @Produce json
// @Param request body object{sneaker_ids=[]int,start_date=string,end_date=string} true "Sneaker ids and optional date bounds"
// @Success 200 {array} domain.PricePoint
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/sneakers/prices [post]
func (h *CatalogHandler) GetPriceHistoryDoc() {}

// GetCompleteSneaker godoc
// @Summary Complete sneaker view
// @Description Get a sneaker with its brand, retailer, recent price history and favoriting users
// @Tags Sneakers
// @Produce json
// @Param sneaker_id path int true "Sneaker ID"
// @Success 200 {object} query.SneakerCompleteResult
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/sneakers/{sneaker_id}/complete [get]
func (h *CatalogHandler) GetCompleteSneakerDoc() {}

// ListBrands godoc
// @Summary List all brands
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Brand
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/brands [get]
func (h *CatalogHandler) ListBrandsDoc() {}

// ListRetailers godoc
// @Summary List all retailers
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Retailer
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/retailers [get]
func (h *CatalogHandler) ListRetailersDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *CatalogHandler) HealthCheckDoc() {}
