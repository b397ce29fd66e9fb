package repository

import (
	"context"

	"myflix-api/internal/domain"
)

// UserRepository defines persistence operations for User documents.
// Lookups report absence with domain.ErrNotFound; store failures are
// returned as *domain.StoreError.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}
