package service

import (
	"context"
	"sync"

	"myflix-api/internal/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	creates int
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (m *memUserRepo) Init(ctx context.Context) error { return nil }

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	m.nextID++
	m.creates++
	user.ID = string(rune('a' + m.nextID))
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, taken := m.users[update.Username]; taken && update.Username != username {
		return nil, domain.ErrDuplicateUsername
	}
	delete(m.users, username)
	u.Username = update.Username
	u.PasswordHash = update.PasswordHash
	u.Email = update.Email
	u.Birthday = update.Birthday
	m.users[u.Username] = u
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	kept := []string{}
	for _, id := range u.FavoriteMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	u.FavoriteMovies = kept
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Delete(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, username)
	return nil
}

type countingMovieRepo struct {
	mu     sync.Mutex
	movies []domain.Movie
	calls  map[string]int
	err    error
	saved  []string
	// gate, when set, holds List until it is closed.
	gate chan struct{}
}

func newCountingMovieRepo(movies ...domain.Movie) *countingMovieRepo {
	return &countingMovieRepo{movies: movies, calls: map[string]int{}}
}

func (c *countingMovieRepo) count(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
}

func (c *countingMovieRepo) Init(ctx context.Context) error { return nil }

func (c *countingMovieRepo) List(ctx context.Context) ([]domain.Movie, error) {
	c.count("list")
	if c.gate != nil {
		<-c.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("find movies", err)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.movies, nil
}

func (c *countingMovieRepo) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	c.count("title")
	if c.err != nil {
		return nil, c.err
	}
	for i := range c.movies {
		if c.movies[i].Title == title {
			m := c.movies[i]
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c *countingMovieRepo) FindGenre(ctx context.Context, name string) (*domain.Genre, error) {
	c.count("genre")
	for i := range c.movies {
		if c.movies[i].Genre.Name == name {
			g := c.movies[i].Genre
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c *countingMovieRepo) FindDirector(ctx context.Context, name string) (*domain.Director, error) {
	c.count("director")
	for i := range c.movies {
		if c.movies[i].Director.Name == name {
			d := c.movies[i].Director
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c *countingMovieRepo) Save(ctx context.Context, movie *domain.Movie) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.saved = append(c.saved, movie.Title)
	movie.ID = "id-" + movie.Title
	return nil
}
