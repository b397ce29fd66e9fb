package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	birthday TEXT NOT NULL DEFAULT '',
	favorite_movies TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectUser = `
SELECT id, username, password_hash, email, birthday, favorite_movies
FROM users
WHERE username = ?`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	favorites, err := json.Marshal(user.FavoriteMovies)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, email, birthday, favorite_movies, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Birthday.String(),
		string(favorites),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return domain.NewStoreError("insert user", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser, username))
}

func (r *UserRepository) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	var updated *domain.User
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE users
SET username = ?, password_hash = ?, email = ?, birthday = ?, updated_at = ?
WHERE username = ?`,
			update.Username,
			update.PasswordHash,
			update.Email,
			update.Birthday.String(),
			time.Now().UTC(),
			username,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateUsername
			}
			return domain.NewStoreError("update user", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return domain.NewStoreError("update user", err)
		} else if n == 0 {
			return domain.ErrNotFound
		}
		updated, err = scanUser(tx.QueryRowContext(ctx, selectUser, update.Username))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	return r.mutateFavorites(ctx, "add favorite", username, func(favorites []string) []string {
		return append(favorites, movieID)
	})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	return r.mutateFavorites(ctx, "remove favorite", username, func(favorites []string) []string {
		kept := favorites[:0]
		for _, id := range favorites {
			if id != movieID {
				kept = append(kept, id)
			}
		}
		return kept
	})
}

// mutateFavorites applies fn to the stored favorites list inside a single
// transaction and returns the updated document.
func (r *UserRepository) mutateFavorites(ctx context.Context, op, username string, fn func([]string) []string) (*domain.User, error) {
	var updated *domain.User
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		user, err := scanUser(tx.QueryRowContext(ctx, selectUser, username))
		if err != nil {
			return err
		}
		user.FavoriteMovies = fn(user.FavoriteMovies)
		encoded, err := json.Marshal(user.FavoriteMovies)
		if err != nil {
			return fmt.Errorf("encode favorites: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE users SET favorite_movies = ?, updated_at = ? WHERE id = ?`,
			string(encoded),
			time.Now().UTC(),
			user.ID,
		); err != nil {
			return domain.NewStoreError(op, err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return domain.NewStoreError("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("delete user", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user      domain.User
		birthday  string
		favorites string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&birthday,
		&favorites,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError("scan user", err)
	}

	var err error
	if user.Birthday, err = domain.ParseDate(birthday); err != nil {
		return nil, domain.NewStoreError("scan user birthday", err)
	}
	user.FavoriteMovies = []string{}
	if err := json.Unmarshal([]byte(favorites), &user.FavoriteMovies); err != nil {
		return nil, domain.NewStoreError("decode favorites", err)
	}
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	return &user, nil
}
