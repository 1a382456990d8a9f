package command

import (
	"errors"
	"testing"

	"github.com/stride/stride-backend/internal/user/domain"
	"github.com/stride/stride-backend/pkg/auth"
)

type fakeUserRepo struct {
	users     map[string]*domain.User
	favorites map[[2]uint]bool
	nextID    uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[string]*domain.User),
		favorites: make(map[[2]uint]bool),
	}
}

func (f *fakeUserRepo) Create(user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) IsFavorite(userID, sneakerID uint) (bool, error) {
	return f.favorites[[2]uint{userID, sneakerID}], nil
}

func (f *fakeUserRepo) AddFavorite(userID, sneakerID uint) error {
	f.favorites[[2]uint{userID, sneakerID}] = true
	return nil
}

func (f *fakeUserRepo) RemoveFavorite(userID, sneakerID uint) error {
	key := [2]uint{userID, sneakerID}
	if !f.favorites[key] {
		return domain.ErrFavoriteNotFound
	}
	delete(f.favorites, key)
	return nil
}

func (f *fakeUserRepo) ListFavoriteSneakerIDs(userID uint) ([]uint, error) {
	var ids []uint
	for key := range f.favorites {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) FavoritesForSneaker(sneakerID uint, limit int) ([]domain.Favorite, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountFavoritesForSneaker(sneakerID uint) (int64, error) {
	return 0, nil
}

func TestAddFavoriteTwiceReportsAlreadyExists(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewAddFavoriteHandler(repo)

	first, err := handler.Handle(AddFavoriteCommand{UserID: 1, SneakerID: 2})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if first.AlreadyExists {
		t.Error("first add reported already_exists")
	}

	second, err := handler.Handle(AddFavoriteCommand{UserID: 1, SneakerID: 2})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if !second.AlreadyExists {
		t.Error("second add should report already_exists")
	}

	if len(repo.favorites) != 1 {
		t.Errorf("expected exactly one stored row, got %d", len(repo.favorites))
	}
}

func TestRemoveMissingFavorite(t *testing.T) {
	handler := NewRemoveFavoriteHandler(newFakeUserRepo())

	err := handler.Handle(RemoveFavoriteCommand{UserID: 1, SneakerID: 2})
	if !errors.Is(err, domain.ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound, got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()

	user, err := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !auth.CheckPassword(user.Password, "secret123") {
		t.Error("stored hash does not verify")
	}

	result, err := NewLoginUserHandler(repo).Handle(LoginUserCommand{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a signed token")
	}

	_, err = NewLoginUserHandler(repo).Handle(LoginUserCommand{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewRegisterUserHandler(repo)

	if _, err := handler.Handle(RegisterUserCommand{Name: "Alice", Email: "a@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := handler.Handle(RegisterUserCommand{Name: "Alice Again", Email: "a@example.com", Password: "secret456"})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}
