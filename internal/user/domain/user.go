package domain

import (
	"errors"
	"time"

	catalogdomain "github.com/stride/stride-backend/internal/catalog/domain"
)

var (
	// ErrFavoriteNotFound is returned when removing a favorite that does not exist
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrEmailExists is returned when registering with an email already in use
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents a platform account
type User struct {
	ID        uint      `json:"user_id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Email     string    `json:"email" gorm:"size:50;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Favorites []Favorite `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Favorite is the junction row of the user <-> sneaker M:N relationship.
// The composite primary key prevents duplicate favorites.
type Favorite struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	SneakerID uint      `json:"sneaker_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Sneaker catalogdomain.Sneaker `json:"-" gorm:"foreignKey:SneakerID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// UserRepository defines the contract for user and favorite data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)

	IsFavorite(userID, sneakerID uint) (bool, error)
	AddFavorite(userID, sneakerID uint) error
	// RemoveFavorite returns ErrFavoriteNotFound when no such pair exists
	RemoveFavorite(userID, sneakerID uint) error
	ListFavoriteSneakerIDs(userID uint) ([]uint, error)
	FavoritesForSneaker(sneakerID uint, limit int) ([]Favorite, error)
	CountFavoritesForSneaker(sneakerID uint) (int64, error)
}
