package repository

import (
	"context"

	"myflix-api/internal/domain"
)

// MovieRepository exposes read access to the movie catalog plus the upsert
// used by catalog imports.
type MovieRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (*domain.Movie, error)
	// FindGenre returns the Genre of the first movie whose Genre.Name matches.
	FindGenre(ctx context.Context, name string) (*domain.Genre, error)
	// FindDirector returns the Director of the first movie whose Director.Name matches.
	FindDirector(ctx context.Context, name string) (*domain.Director, error)
	// Save inserts the movie or replaces the first one with the same title.
	Save(ctx context.Context, movie *domain.Movie) error
}
