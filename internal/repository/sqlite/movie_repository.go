package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	genre_name TEXT NOT NULL DEFAULT '',
	genre_description TEXT NOT NULL DEFAULT '',
	director_name TEXT NOT NULL DEFAULT '',
	director_bio TEXT NOT NULL DEFAULT '',
	director_birth INTEGER NOT NULL DEFAULT 0,
	director_death INTEGER NULL,
	image_path TEXT NOT NULL DEFAULT '',
	featured INTEGER NOT NULL DEFAULT 0
);
`

var movieIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_genre_name ON movies(genre_name)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_director_name ON movies(director_name)`,
}

const movieColumns = `id, title, description, genre_name, genre_description, director_name, director_bio, director_birth, director_death, image_path, featured`

// MovieRepository keeps the embedded Genre and Director objects flattened
// into prefixed columns; rowid order stands in for store-native order.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) repository.MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMoviesTable); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	for _, stmt := range movieIndexes {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create movies index: %w", err)
		}
	}
	return nil
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY rowid`)
	if err != nil {
		return nil, domain.NewStoreError("find movies", err)
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate movies", err)
	}
	return movies, nil
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return r.first(ctx, "title", title)
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (*domain.Genre, error) {
	movie, err := r.first(ctx, "genre_name", name)
	if err != nil {
		return nil, err
	}
	return &movie.Genre, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (*domain.Director, error) {
	movie, err := r.first(ctx, "director_name", name)
	if err != nil {
		return nil, err
	}
	return &movie.Director, nil
}

// first returns the earliest inserted movie whose column equals value.
// column is always one of the constant names above.
func (r *MovieRepository) first(ctx context.Context, column, value string) (*domain.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE `+column+` = ? ORDER BY rowid LIMIT 1`,
		value,
	)
	return scanMovie(row)
}

func (r *MovieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM movies WHERE title = ? ORDER BY rowid LIMIT 1`, movie.Title,
		).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id = movie.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO movies (`+movieColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, movie.Title, movie.Description,
				movie.Genre.Name, movie.Genre.Description,
				movie.Director.Name, movie.Director.Bio, movie.Director.Birth, deathValue(movie.Director.Death),
				movie.ImagePath, movie.Featured,
			); err != nil {
				return domain.NewStoreError("insert movie", err)
			}
		case err != nil:
			return domain.NewStoreError("find movie", err)
		default:
			if _, err := tx.ExecContext(ctx, `
UPDATE movies
SET description = ?, genre_name = ?, genre_description = ?, director_name = ?, director_bio = ?,
	director_birth = ?, director_death = ?, image_path = ?, featured = ?
WHERE id = ?`,
				movie.Description,
				movie.Genre.Name, movie.Genre.Description,
				movie.Director.Name, movie.Director.Bio, movie.Director.Birth, deathValue(movie.Director.Death),
				movie.ImagePath, movie.Featured,
				id,
			); err != nil {
				return domain.NewStoreError("update movie", err)
			}
		}
		movie.ID = id
		return nil
	})
}

func deathValue(death *int) sql.NullInt64 {
	if death == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*death), Valid: true}
}

func scanMovie(row interface {
	Scan(dest ...any) error
}) (*domain.Movie, error) {
	var (
		movie domain.Movie
		death sql.NullInt64
	)
	if err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre.Name,
		&movie.Genre.Description,
		&movie.Director.Name,
		&movie.Director.Bio,
		&movie.Director.Birth,
		&death,
		&movie.ImagePath,
		&movie.Featured,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError("scan movie", err)
	}
	if death.Valid {
		d := int(death.Int64)
		movie.Director.Death = &d
	}
	return &movie, nil
}
