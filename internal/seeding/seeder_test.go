package seeding

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	catalogdomain "github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/pkg/auth"
)

// memStore records everything the pipeline writes. IDs are assigned
// sequentially per entity and keep counting across resets, mirroring how
// the storage engine hands out fresh ids on reseed.
type memStore struct {
	retailers []catalogdomain.Retailer
	brands    []catalogdomain.Brand
	users     []userdomain.User
	sneakers  []catalogdomain.Sneaker
	prices    []catalogdomain.PriceHistory
	favorites []userdomain.Favorite

	nextRetailerID uint
	nextBrandID    uint
	nextUserID     uint
	nextSneakerID  uint
	nextPriceID    uint

	resets    int
	commits   int
	rollbacks int
}

func (s *memStore) Reset() error {
	s.retailers = nil
	s.brands = nil
	s.users = nil
	s.sneakers = nil
	s.prices = nil
	s.favorites = nil
	s.resets++
	return nil
}

func (s *memStore) CreateRetailer(r *catalogdomain.Retailer) error {
	s.nextRetailerID++
	r.ID = s.nextRetailerID
	s.retailers = append(s.retailers, *r)
	return nil
}

func (s *memStore) CreateBrand(b *catalogdomain.Brand) error {
	s.nextBrandID++
	b.ID = s.nextBrandID
	s.brands = append(s.brands, *b)
	return nil
}

func (s *memStore) CreateUser(u *userdomain.User) error {
	s.nextUserID++
	u.ID = s.nextUserID
	s.users = append(s.users, *u)
	return nil
}

func (s *memStore) CreateSneaker(sn *catalogdomain.Sneaker) error {
	s.nextSneakerID++
	sn.ID = s.nextSneakerID
	s.sneakers = append(s.sneakers, *sn)
	return nil
}

func (s *memStore) CreatePricePoint(p *catalogdomain.PriceHistory) error {
	s.nextPriceID++
	p.ID = s.nextPriceID
	s.prices = append(s.prices, *p)
	return nil
}

func (s *memStore) CreateFavorite(f *userdomain.Favorite) error {
	s.favorites = append(s.favorites, *f)
	return nil
}

func (s *memStore) Commit() error {
	s.commits++
	return nil
}

func (s *memStore) Rollback() error {
	s.rollbacks++
	return nil
}

func writeSources(t *testing.T, files map[string]string) Sources {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return DefaultSources(dir)
}

func testSeeder(store Store, sources Sources) *Seeder {
	return NewSeeder(store, sources, WithRand(rand.New(rand.NewSource(1))))
}

func TestRunMissingSource(t *testing.T) {
	sources := writeSources(t, map[string]string{
		"retailer.csv": "1,Foot Locker,New York,https://footlocker.com\n",
		"brand.csv":    "",
		"user.csv":     "",
		"sneaker.csv":  "",
		// price_history.csv deliberately absent
	})

	store := &memStore{}
	_, err := testSeeder(store, sources).Run(context.Background())
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
	if store.resets != 0 {
		t.Errorf("expected no reset before source check, got %d", store.resets)
	}
}

func TestRunFullPipeline(t *testing.T) {
	sources := writeSources(t, map[string]string{
		"retailer.csv": "10,Foot Locker,New York,https://footlocker.com\n" +
			"20,JD Sports,London,https://jdsports.com\n",
		"brand.csv": "1,Nike,https://nike.com,10\n" +
			"2,Adidas,https://adidas.com,20\n" +
			"3,Puma,https://puma.com,99\n" + // unknown retailer
			"x,Broken,,10\n", // non-integer id
		"user.csv": "1,Alice,alice@example.com,secret1\n" +
			"2,Bob,bob@example.com,secret2\n",
		"sneaker.csv": "100,Air Max 90,AM90-001,2020,Infrared,\"7,8,9\",120.00,5,1\n" +
			"101,Ultraboost,UB-001,2021,Core Black,\"8,9,10\",180.00,,2\n" +
			"102,Orphan,ORP-1,2020,Grey,9,99.00,3,9\n" + // unknown brand
			"103,Bad Price,BP-1,2020,Red,9,abc,3,1\n", // unparseable price
		"price_history.csv": "1,100,120.00,2024-01-01 10:00:00\n" +
			"2,100,115.50,2024-01-02 10:00:00\n" +
			"3,101,180.00,2024-01-01 10:00:00\n" +
			"4,999,50.00,2024-01-01 10:00:00\n" + // unknown sneaker
			"5,100,110.00,not-a-timestamp\n", // malformed timestamp
	})

	store := &memStore{}
	summary, err := testSeeder(store, sources).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Retailers != 2 {
		t.Errorf("retailers = %d, want 2", summary.Retailers)
	}
	if summary.Brands != 2 {
		t.Errorf("brands = %d, want 2", summary.Brands)
	}
	if summary.Users != 2 {
		t.Errorf("users = %d, want 2", summary.Users)
	}
	if summary.Sneakers != 2 {
		t.Errorf("sneakers = %d, want 2", summary.Sneakers)
	}
	if summary.PricePoints != 3 {
		t.Errorf("price points = %d, want 3", summary.PricePoints)
	}

	// brand references remapped to storage-assigned retailer ids
	if store.brands[0].Name != "Nike" || store.brands[0].RetailerID != store.retailers[0].ID {
		t.Errorf("Nike should reference %d, got %d", store.retailers[0].ID, store.brands[0].RetailerID)
	}
	if store.brands[1].Name != "Adidas" || store.brands[1].RetailerID != store.retailers[1].ID {
		t.Errorf("Adidas should reference %d, got %d", store.retailers[1].ID, store.brands[1].RetailerID)
	}

	// sneaker references remapped to storage-assigned brand ids
	if store.sneakers[0].BrandID != store.brands[0].ID {
		t.Errorf("Air Max 90 should reference brand %d, got %d", store.brands[0].ID, store.sneakers[0].BrandID)
	}
	if store.sneakers[1].Ratings != nil {
		t.Errorf("empty ratings column should load as nil, got %v", *store.sneakers[1].Ratings)
	}

	// price points remapped to storage-assigned sneaker ids
	for _, p := range store.prices[:2] {
		if p.SneakerID != store.sneakers[0].ID {
			t.Errorf("price point should reference sneaker %d, got %d", store.sneakers[0].ID, p.SneakerID)
		}
	}
	if store.prices[2].SneakerID != store.sneakers[1].ID {
		t.Errorf("price point should reference sneaker %d, got %d", store.sneakers[1].ID, store.prices[2].SneakerID)
	}

	// only two sneakers exist, so every user favorites both
	if summary.Favorites != 4 {
		t.Errorf("favorites = %d, want 4", summary.Favorites)
	}

	// passwords are hashed before storage
	if store.users[0].Password == "secret1" {
		t.Error("password stored in plaintext")
	}
	if !auth.CheckPassword(store.users[0].Password, "secret1") {
		t.Error("stored hash does not verify against the source password")
	}

	if store.resets != 1 {
		t.Errorf("resets = %d, want 1", store.resets)
	}
	// reset + one commit per phase at minimum
	if store.commits < 7 {
		t.Errorf("commits = %d, want at least 7", store.commits)
	}
}

func TestFavoritesBounds(t *testing.T) {
	sources := writeSources(t, map[string]string{
		"retailer.csv": "1,Foot Locker,New York,https://footlocker.com\n",
		"brand.csv":    "1,Nike,https://nike.com,1\n",
		"user.csv": "1,Alice,alice@example.com,pw1\n" +
			"2,Bob,bob@example.com,pw2\n" +
			"3,Carol,carol@example.com,pw3\n",
		"sneaker.csv": "101,A,SK-1,2020,Black,9,100.00,4,1\n" +
			"102,B,SK-2,2020,Black,9,100.00,4,1\n" +
			"103,C,SK-3,2020,Black,9,100.00,4,1\n" +
			"104,D,SK-4,2020,Black,9,100.00,4,1\n" +
			"105,E,SK-5,2020,Black,9,100.00,4,1\n" +
			"106,F,SK-6,2020,Black,9,100.00,4,1\n" +
			"107,G,SK-7,2020,Black,9,100.00,4,1\n" +
			"108,H,SK-8,2020,Black,9,100.00,4,1\n" +
			"109,I,SK-9,2020,Black,9,100.00,4,1\n" +
			"110,J,SK-10,2020,Black,9,100.00,4,1\n",
		"price_history.csv": "",
	})

	store := &memStore{}
	summary, err := testSeeder(store, sources).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	perUser := make(map[uint]map[uint]bool)
	for _, f := range store.favorites {
		if perUser[f.UserID] == nil {
			perUser[f.UserID] = make(map[uint]bool)
		}
		if perUser[f.UserID][f.SneakerID] {
			t.Fatalf("user %d favorited sneaker %d twice", f.UserID, f.SneakerID)
		}
		perUser[f.UserID][f.SneakerID] = true
	}

	if len(perUser) != summary.Users {
		t.Errorf("expected favorites for all %d users, got %d", summary.Users, len(perUser))
	}
	for userID, sneakerIDs := range perUser {
		if len(sneakerIDs) < 3 || len(sneakerIDs) > 8 {
			t.Errorf("user %d has %d favorites, want between 3 and 8", userID, len(sneakerIDs))
		}
	}
}

func TestReseedSameCounts(t *testing.T) {
	sources := writeSources(t, map[string]string{
		"retailer.csv":      "1,Foot Locker,New York,https://footlocker.com\n",
		"brand.csv":         "1,Nike,https://nike.com,1\n",
		"user.csv":          "1,Alice,alice@example.com,pw1\n",
		"sneaker.csv":       "1,Air Max 90,AM90-001,2020,Infrared,9,120.00,5,1\n",
		"price_history.csv": "1,1,120.00,2024-01-01 10:00:00\n",
	})

	store := &memStore{}
	seeder := testSeeder(store, sources)

	first, err := seeder.Run(context.Background())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := seeder.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if *first != *second {
		t.Errorf("reseed changed aggregate counts: %+v vs %+v", first, second)
	}
	if store.resets != 2 {
		t.Errorf("resets = %d, want 2", store.resets)
	}
	if len(store.retailers) != 1 || len(store.sneakers) != 1 {
		t.Errorf("second run should leave one row per source row, got %d retailers, %d sneakers",
			len(store.retailers), len(store.sneakers))
	}
	// assigned ids move forward across reseeds
	if store.sneakers[0].ID == 1 {
		t.Error("expected fresh storage ids on reseed")
	}
}

func TestBatchCommitBoundary(t *testing.T) {
	prices := ""
	for i := 0; i < 150; i++ {
		prices += "1,1,100.00,2024-01-01 10:00:00\n"
	}
	sources := writeSources(t, map[string]string{
		"retailer.csv":      "1,Foot Locker,New York,https://footlocker.com\n",
		"brand.csv":         "1,Nike,https://nike.com,1\n",
		"user.csv":          "1,Alice,alice@example.com,pw1\n",
		"sneaker.csv":       "1,Air Max 90,AM90-001,2020,Infrared,9,120.00,5,1\n",
		"price_history.csv": prices,
	})

	store := &memStore{}
	summary, err := testSeeder(store, sources).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.PricePoints != 150 {
		t.Fatalf("price points = %d, want 150", summary.PricePoints)
	}
	// reset, retailers, brands, users, sneakers, one batch commit at 100,
	// the remainder commit, and favorites
	if store.commits != 8 {
		t.Errorf("commits = %d, want 8", store.commits)
	}
}
