package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"myflix-api/internal/domain"
)

func aliceInput(t *testing.T) domain.UserInput {
	t.Helper()
	birthday, err := domain.ParseDate("2000-01-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return domain.UserInput{
		Username: "alice",
		Password: "pw1",
		Email:    "a@x.com",
		Birthday: birthday,
	}
}

func TestRegisterCreatesUserWithEmptyFavorites(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)

	user, err := svc.Register(context.Background(), aliceInput(t))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one document, got %d", repo.creates)
	}
	if user.FavoriteMovies == nil || len(user.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %#v", user.FavoriteMovies)
	}
	if user.PasswordHash != "" {
		t.Fatalf("password hash must not leave the service")
	}

	stored := repo.users["alice"]
	if stored.PasswordHash == "pw1" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceInput(t)); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, aliceInput(t))
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("duplicate registration must not write, got %d creates", repo.creates)
	}
}

func TestRegisterRequiresUsernameAndPassword(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), bcrypt.MinCost)

	cases := []domain.UserInput{
		{Username: "  ", Password: "pw"},
		{Username: "bob", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("input %+v: expected invalid input, got %v", in, err)
		}
	}
}

func TestPasswordLongerThanBcryptLimitIsInvalidInput(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()

	in := aliceInput(t)
	in.Password = strings.Repeat("p", 73)
	if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("register: expected invalid input, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("rejected registration must not write, got %d creates", repo.creates)
	}

	in.Password = strings.Repeat("p", 72)
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("72-byte password must be accepted: %v", err)
	}

	in.Password = strings.Repeat("p", 80)
	if _, err := svc.Update(ctx, "alice", in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("update: expected invalid input, got %v", err)
	}
}

func TestUpdateReplacesFieldsAndRehashes(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()
	if _, err := svc.Register(ctx, aliceInput(t)); err != nil {
		t.Fatalf("register: %v", err)
	}

	in := aliceInput(t)
	in.Username = "alicia"
	in.Password = "pw2"
	in.Email = "b@x.com"
	user, err := svc.Update(ctx, "alice", in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Username != "alicia" || user.Email != "b@x.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users["alicia"].PasswordHash), []byte("pw2")); err != nil {
		t.Fatalf("new password not hashed: %v", err)
	}

	if _, err := svc.Update(ctx, "ghost", in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()
	if _, err := svc.Register(ctx, aliceInput(t)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.AddFavorite(ctx, "alice", "7"); err != nil {
		t.Fatalf("add: %v", err)
	}

	before, _ := svc.GetByUsername(ctx, "alice")
	if _, err := svc.AddFavorite(ctx, "alice", "42"); err != nil {
		t.Fatalf("add: %v", err)
	}
	after, err := svc.RemoveFavorite(ctx, "alice", "42")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !reflect.DeepEqual(before.FavoriteMovies, after.FavoriteMovies) {
		t.Fatalf("round trip changed favorites: %v -> %v", before.FavoriteMovies, after.FavoriteMovies)
	}
}

func TestAddFavoriteTwiceKeepsDuplicates(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()
	if _, err := svc.Register(ctx, aliceInput(t)); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc.AddFavorite(ctx, "alice", "42")
	user, err := svc.AddFavorite(ctx, "alice", "42")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !reflect.DeepEqual(user.FavoriteMovies, []string{"42", "42"}) {
		t.Fatalf("expected two occurrences, got %v", user.FavoriteMovies)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()

	if err := svc.Delete(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Register(ctx, aliceInput(t)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByUsername(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
