package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/stride/stride-backend/internal/user/domain"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{}, &domain.Favorite{})
}

func (r *GormUserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) IsFavorite(userID, sneakerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) AddFavorite(userID, sneakerID uint) error {
	favorite := domain.Favorite{
		UserID:    userID,
		SneakerID: sneakerID,
		CreatedAt: time.Now(),
	}
	return r.db.Create(&favorite).Error
}

func (r *GormUserRepository) RemoveFavorite(userID, sneakerID uint) error {
	result := r.db.
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *GormUserRepository) ListFavoriteSneakerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("sneaker_id", &ids).Error
	return ids, err
}

func (r *GormUserRepository) FavoritesForSneaker(sneakerID uint, limit int) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := r.db.Where("sneaker_id = ?", sneakerID).
		Limit(limit).
		Find(&favorites).Error
	return favorites, err
}

func (r *GormUserRepository) CountFavoritesForSneaker(sneakerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("sneaker_id = ?", sneakerID).
		Count(&count).Error
	return count, err
}
