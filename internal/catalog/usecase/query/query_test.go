package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
)

type fakeCatalogRepo struct {
	sneakers []domain.SneakerWithBrand
	brands   []domain.Brand
	points   []domain.PricePoint
	detail   *domain.SneakerDetail
	recent   []domain.PriceHistory

	lastIDs   []uint
	lastStart *time.Time
	lastEnd   *time.Time
}

func (f *fakeCatalogRepo) ListSneakersWithBrand() ([]domain.SneakerWithBrand, error) {
	return f.sneakers, nil
}

func (f *fakeCatalogRepo) ListBrands() ([]domain.Brand, error) {
	return f.brands, nil
}

func (f *fakeCatalogRepo) ListRetailers() ([]domain.Retailer, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) PriceHistory(sneakerIDs []uint, start, end *time.Time) ([]domain.PricePoint, error) {
	f.lastIDs = sneakerIDs
	f.lastStart = start
	f.lastEnd = end
	return f.points, nil
}

func (f *fakeCatalogRepo) SneakerDetail(id uint) (*domain.SneakerDetail, error) {
	if f.detail == nil || f.detail.SneakerID != id {
		return nil, domain.ErrSneakerNotFound
	}
	return f.detail, nil
}

func (f *fakeCatalogRepo) RecentPrices(sneakerID uint, limit int) ([]domain.PriceHistory, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeCatalogRepo) CountPrices(sneakerID uint) (int64, error) {
	return int64(len(f.recent)), nil
}

func (f *fakeCatalogRepo) CreatePricePoint(point *domain.PriceHistory) error {
	return nil
}

func (f *fakeCatalogRepo) SneakerCount() (int64, error) {
	return int64(len(f.sneakers)), nil
}

type fakeFavoriteSource struct {
	favorites []userdomain.Favorite
}

func (f *fakeFavoriteSource) FavoritesForSneaker(sneakerID uint, limit int) ([]userdomain.Favorite, error) {
	if len(f.favorites) > limit {
		return f.favorites[:limit], nil
	}
	return f.favorites, nil
}

func (f *fakeFavoriteSource) CountFavoritesForSneaker(sneakerID uint) (int64, error) {
	return int64(len(f.favorites)), nil
}

func TestPriceHistoryRejectsEmptyIDs(t *testing.T) {
	handler := NewPriceHistoryHandler(&fakeCatalogRepo{})

	_, err := handler.Handle(PriceHistoryQuery{SneakerIDs: []uint{}})
	if !errors.Is(err, domain.ErrEmptySneakerIDs) {
		t.Fatalf("expected ErrEmptySneakerIDs, got %v", err)
	}
}

func TestPriceHistoryPassesBounds(t *testing.T) {
	repo := &fakeCatalogRepo{points: []domain.PricePoint{{SneakerID: 1, Price: 100}}}
	handler := NewPriceHistoryHandler(repo)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	points, err := handler.Handle(PriceHistoryQuery{
		SneakerIDs: []uint{1, 2},
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if len(repo.lastIDs) != 2 || repo.lastStart == nil || repo.lastEnd == nil {
		t.Errorf("query bounds not forwarded: ids=%v start=%v end=%v", repo.lastIDs, repo.lastStart, repo.lastEnd)
	}
}

func TestSneakerCompleteNotFound(t *testing.T) {
	handler := NewSneakerCompleteHandler(&fakeCatalogRepo{}, &fakeFavoriteSource{})

	_, err := handler.Handle(SneakerCompleteQuery{SneakerID: 42})
	if !errors.Is(err, domain.ErrSneakerNotFound) {
		t.Fatalf("expected ErrSneakerNotFound, got %v", err)
	}
}

func TestSneakerCompleteAssemblesRelationships(t *testing.T) {
	ratings := 5
	repo := &fakeCatalogRepo{
		detail: &domain.SneakerDetail{
			SneakerID:    1,
			Name:         "Air Max 90",
			SKU:          "AM90-001",
			Price:        120,
			Ratings:      &ratings,
			BrandID:      2,
			BrandName:    "Nike",
			RetailerID:   3,
			RetailerName: "Foot Locker",
		},
		recent: []domain.PriceHistory{
			{ID: 1, SneakerID: 1, Price: 120},
			{ID: 2, SneakerID: 1, Price: 115},
		},
	}
	favorites := &fakeFavoriteSource{favorites: []userdomain.Favorite{
		{UserID: 7, SneakerID: 1},
	}}

	result, err := NewSneakerCompleteHandler(repo, favorites).Handle(SneakerCompleteQuery{SneakerID: 1})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if result.Sneaker.Name != "Air Max 90" {
		t.Errorf("sneaker name = %q", result.Sneaker.Name)
	}
	if result.MadeBy.Brand.Name != "Nike" || result.MadeBy.Brand.BrandID != 2 {
		t.Errorf("brand not attached: %+v", result.MadeBy.Brand)
	}
	if result.SoldBy.Retailer.Name != "Foot Locker" || result.SoldBy.Retailer.RetailerID != 3 {
		t.Errorf("retailer not attached: %+v", result.SoldBy.Retailer)
	}
	if result.Priced.TotalRecords != 2 || len(result.Priced.LatestPrices) != 2 {
		t.Errorf("price history not attached: %+v", result.Priced)
	}
	if result.Favorites.TotalFavorited != 1 || len(result.Favorites.FavoritedByUser) != 1 {
		t.Errorf("favorites not attached: %+v", result.Favorites)
	}
}
