package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Retailer{},
		&domain.Brand{},
		&domain.Sneaker{},
		&domain.PriceHistory{},
	)
}

func (r *GormCatalogRepository) ListSneakersWithBrand() ([]domain.SneakerWithBrand, error) {
	var rows []domain.SneakerWithBrand
	err := r.db.Table("sneakers").
		Select(`sneakers.id AS sneaker_id, sneakers.name, sneakers.sku,
			sneakers.release_date, sneakers.colorway, sneakers.available_sizes,
			sneakers.price, sneakers.ratings, sneakers.brand_id,
			brands.name AS brand_name, brands.retailer_id`).
		Joins("JOIN brands ON brands.id = sneakers.brand_id").
		Order("brands.name, sneakers.name").
		Scan(&rows).Error
	return rows, err
}

func (r *GormCatalogRepository) ListBrands() ([]domain.Brand, error) {
	var brands []domain.Brand
	err := r.db.Find(&brands).Error
	return brands, err
}

func (r *GormCatalogRepository) ListRetailers() ([]domain.Retailer, error) {
	var retailers []domain.Retailer
	err := r.db.Find(&retailers).Error
	return retailers, err
}

func (r *GormCatalogRepository) PriceHistory(sneakerIDs []uint, start, end *time.Time) ([]domain.PricePoint, error) {
	q := r.db.Model(&domain.PriceHistory{}).
		Select("timestamp, price, sneaker_id").
		Where("sneaker_id IN ?", sneakerIDs)

	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}

	var points []domain.PricePoint
	err := q.Order("timestamp").Scan(&points).Error
	return points, err
}

func (r *GormCatalogRepository) SneakerDetail(id uint) (*domain.SneakerDetail, error) {
	var detail domain.SneakerDetail
	err := r.db.Table("sneakers").
		Select(`sneakers.id AS sneaker_id, sneakers.name, sneakers.sku,
			sneakers.release_date, sneakers.colorway, sneakers.available_sizes,
			sneakers.price, sneakers.ratings, sneakers.brand_id,
			brands.name AS brand_name, brands.website AS brand_website, brands.retailer_id,
			retailers.name AS retailer_name, retailers.location AS retailer_location,
			retailers.website AS retailer_website`).
		Joins("JOIN brands ON brands.id = sneakers.brand_id").
		Joins("JOIN retailers ON retailers.id = brands.retailer_id").
		Where("sneakers.id = ?", id).
		Take(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSneakerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *GormCatalogRepository) RecentPrices(sneakerID uint, limit int) ([]domain.PriceHistory, error) {
	var prices []domain.PriceHistory
	err := r.db.Where("sneaker_id = ?", sneakerID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&prices).Error
	return prices, err
}

func (r *GormCatalogRepository) CountPrices(sneakerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.PriceHistory{}).
		Where("sneaker_id = ?", sneakerID).
		Count(&count).Error
	return count, err
}

func (r *GormCatalogRepository) CreatePricePoint(point *domain.PriceHistory) error {
	return r.db.Create(point).Error
}

func (r *GormCatalogRepository) SneakerCount() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Sneaker{}).Count(&count).Error
	return count, err
}
