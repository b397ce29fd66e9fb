package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

// UserService describes user lifecycle operations. Absence is always reported
// as domain.ErrNotFound.
type UserService interface {
	Register(ctx context.Context, input domain.UserInput) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, username string, input domain.UserInput) (*domain.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type userService struct {
	users      repository.UserRepository
	bcryptCost int
}

func NewUserService(users repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// Register relies on the store's unique username constraint instead of a
// lookup before the insert, so two concurrent registrations cannot both win.
func (s *userService) Register(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       input.Username,
		PasswordHash:   hash,
		Email:          input.Email,
		Birthday:       input.Birthday,
		FavoriteMovies: []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, username string, input domain.UserInput) (*domain.User, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, username, domain.UserUpdate{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Birthday:     input.Birthday,
	})
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	user, err := s.users.AddFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	user, err := s.users.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	return s.users.Delete(ctx, username)
}

func (s *userService) normalize(input domain.UserInput) (domain.UserInput, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" {
		return input, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if input.Password == "" {
		return input, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if len(input.Password) > maxPasswordBytes {
		return input, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return input, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	favorites := make([]string, len(user.FavoriteMovies))
	copy(favorites, user.FavoriteMovies)
	return &domain.User{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Birthday:       user.Birthday,
		FavoriteMovies: favorites,
	}
}
