package store

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/testutil"
)

func TestUserCRUD(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, db, "alice", "hash-1", models.RoleEmployee)
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("User ID should not be 0")
	}

	if _, err := CreateUser(ctx, db, "alice", "hash-2", models.RoleAdmin); !errors.Is(err, database.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	got, err := GetUserByUsername(ctx, db, "alice")
	if err != nil {
		t.Fatalf("Get user by username: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash-1" || got.Role != models.RoleEmployee {
		t.Errorf("Unexpected user %+v", got)
	}

	if err := UpdateUser(ctx, db, user.ID, "alicia", "", models.RoleAdmin); err != nil {
		t.Fatalf("Update user without password: %v", err)
	}
	got, err = GetUser(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("Get user: %v", err)
	}
	if got.Username != "alicia" || got.Role != models.RoleAdmin || got.PasswordHash != "hash-1" {
		t.Errorf("Unexpected user after update %+v", got)
	}

	if err := UpdateUser(ctx, db, user.ID, "alicia", "hash-3", models.RoleEmployee); err != nil {
		t.Fatalf("Update user with password: %v", err)
	}
	got, _ = GetUser(ctx, db, user.ID)
	if got.PasswordHash != "hash-3" {
		t.Errorf("Expected password to change, got %s", got.PasswordHash)
	}

	if err := UpdatePasswordHash(ctx, db, user.ID, "hash-4"); err != nil {
		t.Fatalf("Update password hash: %v", err)
	}

	if err := DeleteUser(ctx, db, user.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}
	if _, err := GetUser(ctx, db, user.ID); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if err := DeleteUser(ctx, db, user.ID); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUpdateUserRejectsTakenUsername(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "bob", "h", models.RoleEmployee); err != nil {
		t.Fatalf("Create bob: %v", err)
	}
	carol, err := CreateUser(ctx, db, "carol", "h", models.RoleEmployee)
	if err != nil {
		t.Fatalf("Create carol: %v", err)
	}

	if err := UpdateUser(ctx, db, carol.ID, "bob", "", models.RoleEmployee); !errors.Is(err, database.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestListEmployees(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	for _, u := range []struct {
		name string
		role models.Role
	}{
		{"Maria", models.RoleEmployee},
		{"mario_b", models.RoleEmployee},
		{"marketing_admin", models.RoleAdmin},
		{"zoe", models.RoleEmployee},
		{"50%off", models.RoleEmployee},
	} {
		if _, err := CreateUser(ctx, db, u.name, "h", u.role); err != nil {
			t.Fatalf("Create %s: %v", u.name, err)
		}
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"Maria", "mario_b", "zoe", "50%off"}},
		{"MAR", []string{"Maria", "mario_b"}},
		{"_", []string{"mario_b"}},
		{"%", []string{"50%off"}},
		{"nobody", []string{}},
	}

	for _, tt := range tests {
		users, err := ListEmployees(ctx, db, tt.search)
		if err != nil {
			t.Fatalf("ListEmployees(%q): %v", tt.search, err)
		}
		if len(users) != len(tt.want) {
			t.Errorf("ListEmployees(%q): expected %v, got %+v", tt.search, tt.want, users)
			continue
		}
		for i, u := range users {
			if u.Username != tt.want[i] || u.Role != models.RoleEmployee {
				t.Errorf("ListEmployees(%q)[%d]: expected %s, got %+v", tt.search, i, tt.want[i], u)
			}
		}
	}

	total, err := CountUsers(ctx, db)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected 5 users, got %d", total)
	}
}
