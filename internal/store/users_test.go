package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lpireis/frota/internal/db"
	"github.com/lpireis/frota/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "carlos", "hash123", model.RoleCollaborator)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "carlos" {
		t.Errorf("expected username 'carlos', got %q", user.Username)
	}
	if user.Role != model.RoleCollaborator {
		t.Errorf("expected role 'collaborator', got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "carlos" {
		t.Errorf("expected username 'carlos', got %q", got.Username)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice", "hash", model.RoleAdmin)

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestUpdateUserRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "root", "hash", model.RoleAdmin)
	user, _ := CreateUser(ctx, database, "carlos", "hash", model.RoleCollaborator)

	if err := UpdateUserRole(ctx, database, user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Role != model.RoleAdmin {
		t.Errorf("expected admin, got %q", got.Role)
	}
}

func TestDemoteLastAdminRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "root", "hash", model.RoleAdmin)
	CreateUser(ctx, database, "carlos", "hash", model.RoleCollaborator)

	err := UpdateUserRole(ctx, database, admin.ID, model.RoleCollaborator)
	if !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}

	// Rejected before any write.
	got, _ := GetUser(ctx, database, admin.ID)
	if got.Role != model.RoleAdmin {
		t.Errorf("expected role to remain admin, got %q", got.Role)
	}
}

func TestDemoteAdminWithAnotherAdminPresent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateUser(ctx, database, "root", "hash", model.RoleAdmin)
	CreateUser(ctx, database, "second", "hash", model.RoleAdmin)

	if err := UpdateUserRole(ctx, database, first.ID, model.RoleCollaborator); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	got, _ := GetUser(ctx, database, first.ID)
	if got.Role != model.RoleCollaborator {
		t.Errorf("expected collaborator, got %q", got.Role)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "pwuser", "oldhash", model.RoleCollaborator)
	UpdateUserPassword(ctx, database, user.ID, "newhash")

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
}
