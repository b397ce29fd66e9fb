package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
	"myflix-api/internal/storage"
)

// CatalogImporter loads movie documents into the catalog. It is the only
// write path for movies; the HTTP API never mutates them.
type CatalogImporter struct {
	movies  repository.MovieRepository
	workers int
	logger  *logrus.Logger
}

func NewCatalogImporter(movies repository.MovieRepository, workers int, logger *logrus.Logger) *CatalogImporter {
	if workers <= 0 {
		workers = 4
	}
	return &CatalogImporter{
		movies:  movies,
		workers: workers,
		logger:  logger,
	}
}

// DecodeCatalog reads a JSON array of movies.
func DecodeCatalog(r io.Reader) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return movies, nil
}

// Import saves every movie, keyed by title, and returns how many were written.
// Movies without a title are skipped; when a title repeats the last entry wins.
func (c *CatalogImporter) Import(ctx context.Context, movies []domain.Movie) (int, error) {
	byTitle := make(map[string]int, len(movies))
	var unique []domain.Movie
	for _, movie := range movies {
		movie.Title = strings.TrimSpace(movie.Title)
		if movie.Title == "" {
			c.logger.Warn("skipping catalog entry without title")
			continue
		}
		if i, ok := byTitle[movie.Title]; ok {
			unique[i] = movie
			continue
		}
		byTitle[movie.Title] = len(unique)
		unique = append(unique, movie)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range unique {
		movie := &unique[i]
		g.Go(func() error {
			if err := c.movies.Save(gctx, movie); err != nil {
				return fmt.Errorf("save %q: %w", movie.Title, err)
			}
			c.logger.WithFields(logrus.Fields{"title": movie.Title, "id": movie.ID}).Debug("movie saved")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(unique), nil
}

// FetchCatalog downloads every key from bucket and concatenates the decoded
// movies in key order.
func (c *CatalogImporter) FetchCatalog(ctx context.Context, objects storage.Service, bucket string, keys []string) ([]domain.Movie, error) {
	parts := make([][]domain.Movie, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, key := range keys {
		g.Go(func() error {
			data, err := objects.Download(gctx, bucket, key)
			if err != nil {
				return fmt.Errorf("download %s: %w", key, err)
			}
			movies, err := DecodeCatalog(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			parts[i] = movies
			c.logger.WithFields(logrus.Fields{"key": key, "movies": len(movies)}).Info("catalog object fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Movie
	for _, part := range parts {
		all = append(all, part...)
	}
	return all, nil
}

// CatalogKeys lists the non-empty .json objects under prefix.
func (c *CatalogImporter) CatalogKeys(ctx context.Context, objects storage.Service, bucket, prefix string) ([]string, error) {
	infos, err := objects.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list catalog objects: %w", err)
	}
	var keys []string
	for _, info := range infos {
		if !strings.HasSuffix(strings.ToLower(info.Key), ".json") {
			continue
		}
		entry := c.logger.WithFields(logrus.Fields{"key": info.Key, "size": info.Size})
		if info.LastModified != nil {
			entry = entry.WithField("modified", info.LastModified.UTC().Format(time.RFC3339))
		}
		if info.Size == 0 {
			entry.Warn("skipping empty catalog object")
			continue
		}
		entry.Debug("catalog object selected")
		keys = append(keys, info.Key)
	}
	return keys, nil
}
