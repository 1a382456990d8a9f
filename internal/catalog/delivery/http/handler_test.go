package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
)

type stubCatalogRepo struct {
	sneakers []domain.SneakerWithBrand
	brands   []domain.Brand
	points   []domain.PricePoint
	detail   *domain.SneakerDetail
}

func (s *stubCatalogRepo) ListSneakersWithBrand() ([]domain.SneakerWithBrand, error) {
	return s.sneakers, nil
}

func (s *stubCatalogRepo) ListBrands() ([]domain.Brand, error) {
	return s.brands, nil
}

func (s *stubCatalogRepo) ListRetailers() ([]domain.Retailer, error) {
	return nil, nil
}

func (s *stubCatalogRepo) PriceHistory(ids []uint, start, end *time.Time) ([]domain.PricePoint, error) {
	return s.points, nil
}

func (s *stubCatalogRepo) SneakerDetail(id uint) (*domain.SneakerDetail, error) {
	if s.detail == nil || s.detail.SneakerID != id {
		return nil, domain.ErrSneakerNotFound
	}
	return s.detail, nil
}

func (s *stubCatalogRepo) RecentPrices(sneakerID uint, limit int) ([]domain.PriceHistory, error) {
	return nil, nil
}

func (s *stubCatalogRepo) CountPrices(sneakerID uint) (int64, error) {
	return 0, nil
}

func (s *stubCatalogRepo) CreatePricePoint(point *domain.PriceHistory) error {
	return nil
}

func (s *stubCatalogRepo) SneakerCount() (int64, error) {
	return int64(len(s.sneakers)), nil
}

type stubFavoriteSource struct{}

func (stubFavoriteSource) FavoritesForSneaker(sneakerID uint, limit int) ([]userdomain.Favorite, error) {
	return nil, nil
}

func (stubFavoriteSource) CountFavoritesForSneaker(sneakerID uint) (int64, error) {
	return 0, nil
}

// the handler registers Prometheus collectors globally, so build it once
// and share it across tests
var (
	setupOnce  sync.Once
	testRepo   *stubCatalogRepo
	testRouter *mux.Router
)

func router(t *testing.T) *mux.Router {
	t.Helper()
	setupOnce.Do(func() {
		testRepo = &stubCatalogRepo{}
		handler := NewCatalogHandler(testRepo, stubFavoriteSource{})
		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)
	})
	return testRouter
}

func TestListSneakers(t *testing.T) {
	r := router(t)
	testRepo.sneakers = []domain.SneakerWithBrand{
		{SneakerID: 1, Name: "Air Max 90", BrandName: "Nike", Price: 120},
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []domain.SneakerWithBrand
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(got) != 1 || got[0].BrandName != "Nike" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestListSneakersEmptyIsArray(t *testing.T) {
	r := router(t)
	testRepo.sneakers = nil

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers", nil))

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty catalog should serialize as [], got %s", body)
	}
}

func TestPriceHistoryEmptyIDs(t *testing.T) {
	r := router(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sneakers/prices", strings.NewReader(`{"sneaker_ids": []}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPriceHistoryWithBounds(t *testing.T) {
	r := router(t)
	testRepo.points = []domain.PricePoint{{SneakerID: 1, Price: 120}}

	body := `{"sneaker_ids": [1], "start_date": "2024-01-01", "end_date": "2024-02-01 00:00:00"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sneakers/prices", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got []domain.PricePoint
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 point, got %d", len(got))
	}
}

func TestPriceHistoryBadDate(t *testing.T) {
	r := router(t)

	body := `{"sneaker_ids": [1], "start_date": "yesterday"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sneakers/prices", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompleteSneakerNotFound(t *testing.T) {
	r := router(t)
	testRepo.detail = nil

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers/99/complete", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCompleteSneaker(t *testing.T) {
	r := router(t)
	testRepo.detail = &domain.SneakerDetail{
		SneakerID:    7,
		Name:         "Air Max 90",
		BrandName:    "Nike",
		RetailerName: "Foot Locker",
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sneakers/7/complete", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{
		"entity_sneaker",
		"relationship_made_by",
		"relationship_sold_by",
		"relationship_was_historically_priced",
		"relationship_favorites",
		"constraints_enforced",
	} {
		if _, ok := got[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}
