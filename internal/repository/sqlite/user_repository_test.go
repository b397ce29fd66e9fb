package sqlite

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

func newUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t))
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func createUser(t *testing.T, repo repository.UserRepository, username string) *domain.User {
	t.Helper()
	birthday, _ := domain.ParseDate("2000-01-01")
	user := &domain.User{
		Username:     username,
		PasswordHash: "hash",
		Email:        username + "@x.com",
		Birthday:     birthday,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return user
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	created := createUser(t, repo, "alice")
	if created.ID == "" {
		t.Fatal("expected store assigned id")
	}
	if created.FavoriteMovies == nil || len(created.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %#v", created.FavoriteMovies)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Email != "alice@x.com" || got.Birthday.String() != "2000-01-01" {
		t.Fatalf("unexpected user %+v", got)
	}
	if len(got.FavoriteMovies) != 0 {
		t.Fatalf("expected no favorites, got %v", got.FavoriteMovies)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := newUserRepo(t)
	createUser(t, repo, "alice")

	err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "other"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUserRepositoryConcurrentCreateHasOneWinner(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicateUsername):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one successful create, got %d", created)
	}
}

func TestUserRepositoryGetMissing(t *testing.T) {
	repo := newUserRepo(t)
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepositoryUpdate(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	created := createUser(t, repo, "alice")
	if _, err := repo.AddFavorite(ctx, "alice", "m1"); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	birthday, _ := domain.ParseDate("1999-12-31")
	updated, err := repo.Update(ctx, "alice", domain.UserUpdate{
		Username:     "alice2",
		PasswordHash: "newhash",
		Email:        "new@x.com",
		Birthday:     birthday,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Username != "alice2" || updated.Email != "new@x.com" {
		t.Fatalf("unexpected updated user %+v", updated)
	}
	if updated.Birthday.String() != "1999-12-31" {
		t.Fatalf("unexpected birthday %s", updated.Birthday)
	}
	if !reflect.DeepEqual(updated.FavoriteMovies, []string{"m1"}) {
		t.Fatalf("update must keep favorites, got %v", updated.FavoriteMovies)
	}

	if _, err := repo.GetByUsername(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old username should be gone, got %v", err)
	}
}

func TestUserRepositoryUpdateMissingAndConflict(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	createUser(t, repo, "alice")
	createUser(t, repo, "bob")

	if _, err := repo.Update(ctx, "ghost", domain.UserUpdate{Username: "ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.Update(ctx, "bob", domain.UserUpdate{Username: "alice", PasswordHash: "h"}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestUserRepositoryFavorites(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	createUser(t, repo, "alice")

	user, err := repo.AddFavorite(ctx, "alice", "42")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !reflect.DeepEqual(user.FavoriteMovies, []string{"42"}) {
		t.Fatalf("unexpected favorites %v", user.FavoriteMovies)
	}

	user, err = repo.AddFavorite(ctx, "alice", "42")
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if !reflect.DeepEqual(user.FavoriteMovies, []string{"42", "42"}) {
		t.Fatalf("duplicates must be kept, got %v", user.FavoriteMovies)
	}

	user, err = repo.AddFavorite(ctx, "alice", "7")
	if err != nil {
		t.Fatalf("add 7: %v", err)
	}

	user, err = repo.RemoveFavorite(ctx, "alice", "42")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !reflect.DeepEqual(user.FavoriteMovies, []string{"7"}) {
		t.Fatalf("remove must pull every occurrence, got %v", user.FavoriteMovies)
	}

	stored, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(stored.FavoriteMovies, []string{"7"}) {
		t.Fatalf("stored favorites %v", stored.FavoriteMovies)
	}

	if _, err := repo.AddFavorite(ctx, "ghost", "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.RemoveFavorite(ctx, "ghost", "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	createUser(t, repo, "alice")

	if err := repo.Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
