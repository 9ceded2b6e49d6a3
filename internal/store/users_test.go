package store

import (
	"context"
	"testing"

	"github.com/kmuriuki/matchday/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	_, users := newTestStores(t)
	ctx := context.Background()

	stored := users.Register(ctx, models.User{
		Name:     "Alice",
		Username: "alice",
		Password: "password123",
	})
	if stored == nil {
		t.Fatal("Register returned nil")
	}
	if stored.ID == "" {
		t.Error("expected a generated id")
	}

	got, err := users.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got == nil {
		t.Fatal("login with correct credentials returned nil")
	}
	if got.ID != stored.ID {
		t.Errorf("login returned wrong user: %s != %s", got.ID, stored.ID)
	}
}

func TestLoginWrongPasswordIsNilNotError(t *testing.T) {
	_, users := newTestStores(t)
	ctx := context.Background()

	users.Register(ctx, models.User{Name: "Alice", Username: "alice", Password: "password123"})

	got, err := users.Login(ctx, "alice", "wrong-password")
	if err != nil {
		t.Fatalf("wrong password must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("wrong password must return nil, got %+v", got)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, users := newTestStores(t)
	ctx := context.Background()

	if users.Register(ctx, models.User{Name: "Alice", Username: "alice", Password: "password123"}) == nil {
		t.Fatal("first register failed")
	}
	// The UNIQUE constraint fires; the write path swallows it into nil.
	if users.Register(ctx, models.User{Name: "Imposter", Username: "alice", Password: "otherpass"}) != nil {
		t.Error("duplicate username register must return nil")
	}
}

func TestUsernameExists(t *testing.T) {
	_, users := newTestStores(t)
	ctx := context.Background()

	exists, err := users.UsernameExists(ctx, "alice")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if exists {
		t.Error("username should not exist yet")
	}

	users.Register(ctx, models.User{Name: "Alice", Username: "alice", Password: "password123"})

	exists, err = users.UsernameExists(ctx, "alice")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if !exists {
		t.Error("username should exist after register")
	}
}

func TestClearUsers(t *testing.T) {
	_, users := newTestStores(t)
	ctx := context.Background()

	users.Register(ctx, models.User{Name: "Alice", Username: "alice", Password: "password123"})
	if !users.Clear(ctx) {
		t.Fatal("clear reported false")
	}

	got, err := users.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login after clear: %v", err)
	}
	if got != nil {
		t.Error("user survived table clear")
	}
}
