// Package backend opens the configured document store and hands out its
// repositories.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"myflix-api/internal/config"
	"myflix-api/internal/repository"
	"myflix-api/internal/repository/mongodb"
	"myflix-api/internal/repository/sqlite"
)

// Backend bundles the repositories of one store with its lifecycle hooks.
type Backend struct {
	Users  repository.UserRepository
	Movies repository.MovieRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the store selected by cfg.Database.Driver and prepares
// its collections or tables.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	var (
		b   *Backend
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverMongo:
		b, err = openMongo(ctx, cfg)
	case config.DriverSQLite:
		b, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := b.Users.Init(ctx); err != nil {
		_ = b.Close(context.Background())
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	if err := b.Movies.Init(ctx); err != nil {
		_ = b.Close(context.Background())
		return nil, fmt.Errorf("init movie repository: %w", err)
	}
	return b, nil
}

func openMongo(ctx context.Context, cfg config.Config) (*Backend, error) {
	store, err := mongodb.Open(ctx, cfg.Database.URI, cfg.Database.Name, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Users:  mongodb.NewUserRepository(store),
		Movies: mongodb.NewMovieRepository(store),
		ping:   store.Ping,
		close:  store.Close,
	}, nil
}

func openSQLite(cfg config.Config) (*Backend, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Users:  sqlite.NewUserRepository(db),
		Movies: sqlite.NewMovieRepository(db),
		ping:   db.PingContext,
		close:  closeDB(db),
	}, nil
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

// Ping reports whether the store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}
