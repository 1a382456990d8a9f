package seeding

import (
	"fmt"

	"gorm.io/gorm"

	catalogdomain "github.com/stride/stride-backend/internal/catalog/domain"
	userdomain "github.com/stride/stride-backend/internal/user/domain"
)

// Store is the seeding pipeline's view of durable storage. Writes
// accumulate in one open unit of work; Commit is the phase boundary.
type Store interface {
	// Reset deletes all rows, children before parents
	Reset() error

	CreateRetailer(retailer *catalogdomain.Retailer) error
	CreateBrand(brand *catalogdomain.Brand) error
	CreateUser(user *userdomain.User) error
	CreateSneaker(sneaker *catalogdomain.Sneaker) error
	CreatePricePoint(point *catalogdomain.PriceHistory) error
	CreateFavorite(favorite *userdomain.Favorite) error

	// Commit makes all writes since the previous Commit durable
	Commit() error
	// Rollback discards uncommitted writes; a no-op when none exist
	Rollback() error
}

// GormStore implements Store on a GORM connection. Each Commit closes the
// current transaction and the next write opens a fresh one, so the
// storage-assigned ids of a committed phase are visible to later phases.
type GormStore struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) begin() *gorm.DB {
	if s.tx == nil {
		s.tx = s.db.Begin()
	}
	return s.tx
}

func (s *GormStore) Reset() error {
	tx := s.begin()
	// Children before parents, matching the foreign-key graph
	for _, model := range []interface{}{
		&userdomain.Favorite{},
		&catalogdomain.PriceHistory{},
		&catalogdomain.Sneaker{},
		&catalogdomain.Brand{},
		&catalogdomain.Retailer{},
		&userdomain.User{},
	} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	return nil
}

func (s *GormStore) CreateRetailer(retailer *catalogdomain.Retailer) error {
	return s.begin().Create(retailer).Error
}

func (s *GormStore) CreateBrand(brand *catalogdomain.Brand) error {
	return s.begin().Create(brand).Error
}

func (s *GormStore) CreateUser(user *userdomain.User) error {
	return s.begin().Create(user).Error
}

func (s *GormStore) CreateSneaker(sneaker *catalogdomain.Sneaker) error {
	return s.begin().Create(sneaker).Error
}

func (s *GormStore) CreatePricePoint(point *catalogdomain.PriceHistory) error {
	return s.begin().Create(point).Error
}

func (s *GormStore) CreateFavorite(favorite *userdomain.Favorite) error {
	return s.begin().Create(favorite).Error
}

func (s *GormStore) Commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit().Error
	s.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *GormStore) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback().Error
	s.tx = nil
	return err
}
