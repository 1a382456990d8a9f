package seeding

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	catalogdomain "github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/pkg/auth"
	"github.com/stride/stride-backend/pkg/logger"
)

// ErrSourceMissing is returned when one of the CSV source files does not
// exist. The check runs before any data is touched.
var ErrSourceMissing = errors.New("seed source file missing")

const (
	// price history rows are committed in batches of this size
	priceBatchSize = 100

	// timestampLayout is the fixed format of price history timestamps
	timestampLayout = "2006-01-02 15:04:05"

	minFavorites = 3
	maxFavorites = 8
)

// Sources holds the paths to the five CSV files, positional fields,
// no header row.
type Sources struct {
	Retailers    string
	Brands       string
	Users        string
	Sneakers     string
	PriceHistory string
}

// DefaultSources resolves the conventional file names under dataDir.
func DefaultSources(dataDir string) Sources {
	return Sources{
		Retailers:    filepath.Join(dataDir, "retailer.csv"),
		Brands:       filepath.Join(dataDir, "brand.csv"),
		Users:        filepath.Join(dataDir, "user.csv"),
		Sneakers:     filepath.Join(dataDir, "sneaker.csv"),
		PriceHistory: filepath.Join(dataDir, "price_history.csv"),
	}
}

// Summary reports how many rows of each entity the pipeline created.
type Summary struct {
	Retailers   int `json:"retailers"`
	Brands      int `json:"brands"`
	Users       int `json:"users"`
	Sneakers    int `json:"sneakers"`
	PricePoints int `json:"price_points"`
	Favorites   int `json:"favorites"`
	SkippedRows int `json:"skipped_rows"`
}

// Seeder rebuilds the catalog from CSV sources. Phases run strictly in
// dependency order and each phase commits before the next begins, so the
// storage-assigned ids of one phase are available to the phases after it.
type Seeder struct {
	store   Store
	sources Sources
	rng     *rand.Rand
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithRand replaces the random source used for synthetic favorites.
// Tests inject a fixed seed to make the favorites phase deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *Seeder) {
		s.rng = rng
	}
}

// NewSeeder creates a seeder over the given store and source files.
func NewSeeder(store Store, sources Sources, opts ...Option) *Seeder {
	s := &Seeder{
		store:   store,
		sources: sources,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the full pipeline: reset, then retailers, brands, users,
// sneakers, price history and synthetic favorites. Row-level failures are
// skipped with a warning; a missing source file or a storage failure
// aborts the whole operation.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if err := s.checkSources(); err != nil {
		return nil, err
	}

	// discards any half-done phase on early return; no-op after a commit
	defer s.store.Rollback()

	logger.Logger.Info().Msg("Clearing existing data")
	if err := s.store.Reset(); err != nil {
		return nil, err
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}

	summary := &Summary{}

	retailerIDs, err := s.loadRetailers(summary)
	if err != nil {
		return nil, err
	}

	s.scanBrandRetailers()

	brandIDs, err := s.loadBrands(retailerIDs, summary)
	if err != nil {
		return nil, err
	}

	userIDs, err := s.loadUsers(summary)
	if err != nil {
		return nil, err
	}

	sneakerIDs, err := s.loadSneakers(brandIDs, summary)
	if err != nil {
		return nil, err
	}

	if err := s.loadPriceHistory(sneakerIDs, summary); err != nil {
		return nil, err
	}

	if err := s.generateFavorites(ctx, userIDs, sneakerIDs, summary); err != nil {
		return nil, err
	}

	logger.Logger.Info().
		Int("retailers", summary.Retailers).
		Int("brands", summary.Brands).
		Int("users", summary.Users).
		Int("sneakers", summary.Sneakers).
		Int("price_points", summary.PricePoints).
		Int("favorites", summary.Favorites).
		Int("skipped_rows", summary.SkippedRows).
		Msg("Seeding complete")

	return summary, nil
}

func (s *Seeder) checkSources() error {
	for _, src := range []struct {
		name string
		path string
	}{
		{"retailer", s.sources.Retailers},
		{"brand", s.sources.Brands},
		{"user", s.sources.Users},
		{"sneaker", s.sources.Sneakers},
		{"price_history", s.sources.PriceHistory},
	} {
		if _, err := os.Stat(src.path); err != nil {
			return fmt.Errorf("%w: %s (%s)", ErrSourceMissing, src.name, src.path)
		}
	}
	return nil
}

// forEachRecord streams records from a CSV file. A record that fails to
// parse as CSV is skipped with a warning; the scan continues.
func forEachRecord(path string, fn func(line int, record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Logger.Warn().Err(err).Str("file", path).Int("line", line).Msg("Skipping malformed CSV record")
			continue
		}
		if err := fn(line, record); err != nil {
			return err
		}
	}
	return nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// loadRetailers is phase 1: no dependencies. Returns the source id ->
// storage id mapping used by the brand phase.
func (s *Seeder) loadRetailers(summary *Summary) (map[int]uint, error) {
	logger.Logger.Info().Msg("Loading retailers")
	ids := make(map[int]uint)

	err := forEachRecord(s.sources.Retailers, func(line int, record []string) error {
		csvID, err := strconv.Atoi(field(record, 0))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 0)).Msg("Skipping retailer with non-integer id")
			summary.SkippedRows++
			return nil
		}
		name := field(record, 1)
		if name == "" {
			logger.Logger.Warn().Int("line", line).Msg("Skipping retailer without a name")
			summary.SkippedRows++
			return nil
		}

		retailer := &catalogdomain.Retailer{
			Name:     name,
			Location: field(record, 2),
			Website:  field(record, 3),
		}
		if err := s.store.CreateRetailer(retailer); err != nil {
			return fmt.Errorf("failed to create retailer %q: %w", name, err)
		}
		ids[csvID] = retailer.ID
		summary.Retailers++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}

	logger.Logger.Info().Int("count", summary.Retailers).Msg("Retailers loaded")
	return ids, nil
}

// scanBrandRetailers is a diagnostic pass over the brand source: it counts
// the declared brand -> retailer associations without writing anything.
// Malformed rows are skipped silently.
func (s *Seeder) scanBrandRetailers() {
	pairs := 0
	_ = forEachRecord(s.sources.Brands, func(line int, record []string) error {
		if _, err := strconv.Atoi(field(record, 0)); err != nil {
			return nil
		}
		if _, err := strconv.Atoi(field(record, 3)); err != nil {
			return nil
		}
		pairs++
		return nil
	})
	logger.Logger.Info().Int("pairs", pairs).Msg("Brand to retailer associations declared in source")
}

// loadBrands is phase 3: resolves each brand's retailer through the phase 1
// mapping. Rows naming an unknown retailer are dropped with a warning.
func (s *Seeder) loadBrands(retailerIDs map[int]uint, summary *Summary) (map[int]uint, error) {
	logger.Logger.Info().Msg("Loading brands")
	ids := make(map[int]uint)

	err := forEachRecord(s.sources.Brands, func(line int, record []string) error {
		csvID, err := strconv.Atoi(field(record, 0))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 0)).Msg("Skipping brand with non-integer id")
			summary.SkippedRows++
			return nil
		}
		retailerCSVID, err := strconv.Atoi(field(record, 3))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 3)).Msg("Skipping brand with non-integer retailer id")
			summary.SkippedRows++
			return nil
		}
		retailerID, ok := retailerIDs[retailerCSVID]
		if !ok {
			logger.Logger.Warn().Int("line", line).Int("retailer_id", retailerCSVID).Msg("Skipping brand referencing unknown retailer")
			summary.SkippedRows++
			return nil
		}

		brand := &catalogdomain.Brand{
			Name:       field(record, 1),
			Website:    field(record, 2),
			RetailerID: retailerID,
		}
		if err := s.store.CreateBrand(brand); err != nil {
			return fmt.Errorf("failed to create brand %q: %w", brand.Name, err)
		}
		ids[csvID] = brand.ID
		summary.Brands++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}

	logger.Logger.Info().Int("count", summary.Brands).Msg("Brands loaded")
	return ids, nil
}

// loadUsers is phase 4: no dependencies. Passwords in the source are
// plaintext and are hashed before storage. Returns the storage ids in
// source order for the favorites phase.
func (s *Seeder) loadUsers(summary *Summary) ([]uint, error) {
	logger.Logger.Info().Msg("Loading users")
	var ids []uint

	err := forEachRecord(s.sources.Users, func(line int, record []string) error {
		if _, err := strconv.Atoi(field(record, 0)); err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 0)).Msg("Skipping user with non-integer id")
			summary.SkippedRows++
			return nil
		}
		email := field(record, 2)
		if email == "" {
			logger.Logger.Warn().Int("line", line).Msg("Skipping user without an email")
			summary.SkippedRows++
			return nil
		}

		hashed, err := auth.HashPassword(field(record, 3))
		if err != nil {
			logger.Logger.Warn().Err(err).Int("line", line).Msg("Skipping user whose password cannot be hashed")
			summary.SkippedRows++
			return nil
		}

		user := &userdomain.User{
			Name:      field(record, 1),
			Email:     email,
			Password:  hashed,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.store.CreateUser(user); err != nil {
			return fmt.Errorf("failed to create user %q: %w", email, err)
		}
		ids = append(ids, user.ID)
		summary.Users++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}

	logger.Logger.Info().Int("count", summary.Users).Msg("Users loaded")
	return ids, nil
}

// loadSneakers is phase 5: resolves each sneaker's brand through the phase 3
// mapping. Unknown brands and numeric parse failures drop the row with a
// warning. Returns both the source mapping (for price history) and the
// storage ids in source order (for favorites).
func (s *Seeder) loadSneakers(brandIDs map[int]uint, summary *Summary) (*sneakerIndex, error) {
	logger.Logger.Info().Msg("Loading sneakers")
	index := &sneakerIndex{byCSVID: make(map[int]uint)}

	err := forEachRecord(s.sources.Sneakers, func(line int, record []string) error {
		csvID, err := strconv.Atoi(field(record, 0))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 0)).Msg("Skipping sneaker with non-integer id")
			summary.SkippedRows++
			return nil
		}
		brandCSVID, err := strconv.Atoi(field(record, 8))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 8)).Msg("Skipping sneaker with non-integer brand id")
			summary.SkippedRows++
			return nil
		}
		brandID, ok := brandIDs[brandCSVID]
		if !ok {
			logger.Logger.Warn().Int("line", line).Int("brand_id", brandCSVID).Msg("Skipping sneaker referencing unknown brand")
			summary.SkippedRows++
			return nil
		}
		price, err := strconv.ParseFloat(field(record, 6), 64)
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 6)).Msg("Skipping sneaker with unparseable price")
			summary.SkippedRows++
			return nil
		}

		var ratings *int
		if raw := field(record, 7); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				logger.Logger.Warn().Int("line", line).Str("value", raw).Msg("Skipping sneaker with unparseable ratings")
				summary.SkippedRows++
				return nil
			}
			ratings = &value
		}

		sneaker := &catalogdomain.Sneaker{
			Name:           field(record, 1),
			SKU:            field(record, 2),
			ReleaseDate:    field(record, 3),
			Colorway:       field(record, 4),
			AvailableSizes: field(record, 5),
			Price:          price,
			Ratings:        ratings,
			BrandID:        brandID,
		}
		if err := s.store.CreateSneaker(sneaker); err != nil {
			return fmt.Errorf("failed to create sneaker %q: %w", sneaker.Name, err)
		}
		index.byCSVID[csvID] = sneaker.ID
		index.ordered = append(index.ordered, sneaker.ID)
		summary.Sneakers++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(); err != nil {
		return nil, err
	}

	logger.Logger.Info().Int("count", summary.Sneakers).Msg("Sneakers loaded")
	return index, nil
}

// sneakerIndex carries both views of the sneaker phase output: the source
// id mapping and the storage ids in stable source order.
type sneakerIndex struct {
	byCSVID map[int]uint
	ordered []uint
}

// loadPriceHistory is phase 6: rows naming an unknown sneaker are skipped
// silently; malformed prices and timestamps are skipped with a warning.
// Inserts are committed every priceBatchSize successful rows, with a final
// commit for the remainder.
func (s *Seeder) loadPriceHistory(index *sneakerIndex, summary *Summary) error {
	logger.Logger.Info().Msg("Loading price history")

	err := forEachRecord(s.sources.PriceHistory, func(line int, record []string) error {
		sneakerCSVID, err := strconv.Atoi(field(record, 1))
		if err != nil {
			summary.SkippedRows++
			return nil
		}
		sneakerID, ok := index.byCSVID[sneakerCSVID]
		if !ok {
			summary.SkippedRows++
			return nil
		}
		price, err := strconv.ParseFloat(field(record, 2), 64)
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 2)).Msg("Skipping price point with unparseable price")
			summary.SkippedRows++
			return nil
		}
		timestamp, err := time.Parse(timestampLayout, field(record, 3))
		if err != nil {
			logger.Logger.Warn().Int("line", line).Str("value", field(record, 3)).Msg("Skipping price point with malformed timestamp")
			summary.SkippedRows++
			return nil
		}

		point := &catalogdomain.PriceHistory{
			SneakerID: sneakerID,
			Price:     price,
			Timestamp: timestamp,
		}
		if err := s.store.CreatePricePoint(point); err != nil {
			return fmt.Errorf("failed to create price point: %w", err)
		}
		summary.PricePoints++

		if summary.PricePoints%priceBatchSize == 0 {
			if err := s.store.Commit(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Commit(); err != nil {
		return err
	}

	logger.Logger.Info().Int("count", summary.PricePoints).Msg("Price history loaded")
	return nil
}

// generateFavorites is phase 7: for every user, pick a random count of
// distinct sneakers (minFavorites up to min(maxFavorites, total)) without
// replacement and link them.
func (s *Seeder) generateFavorites(ctx context.Context, userIDs []uint, index *sneakerIndex, summary *Summary) error {
	if len(userIDs) == 0 || len(index.ordered) == 0 {
		logger.Logger.Warn().Msg("Skipping favorites: no users or no sneakers loaded")
		return s.store.Commit()
	}
	logger.Logger.Info().Msg("Generating favorites")

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		hi := maxFavorites
		if len(index.ordered) < hi {
			hi = len(index.ordered)
		}
		count := hi
		if hi > minFavorites {
			count = minFavorites + s.rng.Intn(hi-minFavorites+1)
		}

		for _, i := range s.rng.Perm(len(index.ordered))[:count] {
			favorite := &userdomain.Favorite{
				UserID:    userID,
				SneakerID: index.ordered[i],
				CreatedAt: time.Now(),
			}
			if err := s.store.CreateFavorite(favorite); err != nil {
				return fmt.Errorf("failed to create favorite: %w", err)
			}
			summary.Favorites++
		}
	}
	if err := s.store.Commit(); err != nil {
		return err
	}

	logger.Logger.Info().Int("count", summary.Favorites).Msg("Favorites generated")
	return nil
}
