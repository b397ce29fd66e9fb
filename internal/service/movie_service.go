package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

// MovieService answers catalog queries. Genres and directors are projections
// of the first movie that embeds them; they are never aggregated.
type MovieService interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error)
	GetGenreByName(ctx context.Context, name string) (*domain.Genre, error)
	GetDirectorByName(ctx context.Context, name string) (*domain.Director, error)
}

const (
	cacheKeyMovies   = "movies"
	cacheKeyTitle    = "title:"
	cacheKeyGenre    = "genre:"
	cacheKeyDirector = "director:"
)

type movieService struct {
	movies repository.MovieRepository
	cache  *cache.Cache
	sf     singleflight.Group
}

// NewMovieService caches successful lookups for ttl. The catalog is read-only
// through the API, so entries only go stale when a catalog import runs; a
// ttl <= 0 disables caching.
func NewMovieService(movies repository.MovieRepository, ttl time.Duration) MovieService {
	s := &movieService{movies: movies}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *movieService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return cached(ctx, s, cacheKeyMovies, func(ctx context.Context) ([]domain.Movie, error) {
		movies, err := s.movies.List(ctx)
		if movies == nil && err == nil {
			movies = []domain.Movie{}
		}
		return movies, err
	})
}

func (s *movieService) GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return cached(ctx, s, cacheKeyTitle+title, func(ctx context.Context) (*domain.Movie, error) {
		return s.movies.GetByTitle(ctx, title)
	})
}

func (s *movieService) GetGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	return cached(ctx, s, cacheKeyGenre+name, func(ctx context.Context) (*domain.Genre, error) {
		return s.movies.FindGenre(ctx, name)
	})
}

func (s *movieService) GetDirectorByName(ctx context.Context, name string) (*domain.Director, error) {
	return cached(ctx, s, cacheKeyDirector+name, func(ctx context.Context) (*domain.Director, error) {
		return s.movies.FindDirector(ctx, name)
	})
}

// cached is a read-through helper; errors, including ErrNotFound, are never
// stored. Concurrent misses on one key share a single store round trip, which
// runs detached from any one caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func cached[T any](ctx context.Context, s *movieService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache == nil {
		return load(ctx)
	}
	if v, ok := s.cache.Get(key); ok {
		return v.(T), nil
	}

	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (any, error) {
		v, err := load(shared)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
