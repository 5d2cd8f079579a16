package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/store"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrEmptyUsername    = errors.New("username is required")
	ErrInvalidRole      = errors.New("role must be admin or employee")
)

// Credentials is the credential store backed by the users table.
type Credentials struct {
	db *sql.DB
}

func NewCredentials(db *sql.DB) *Credentials {
	return &Credentials{db: db}
}

// Verify reports whether password is correct for username. Store failures
// are logged and count as a failed verification. A successful match against
// a legacy digest or plaintext row upgrades the row to bcrypt.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*models.User, bool) {
	user, err := store.GetUserByUsername(ctx, c.db, username)
	if err != nil {
		if !errors.Is(err, database.ErrUserNotFound) {
			log.Printf("verify credentials for %q: %v", username, err)
		}
		return nil, false
	}

	ok, legacy := CheckPassword(user.PasswordHash, password)
	if !ok {
		return nil, false
	}

	if legacy {
		c.upgradeHash(ctx, user, password)
	}
	return user, true
}

func (c *Credentials) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := HashPassword(password)
	if err != nil {
		log.Printf("rehash password for %q: %v", user.Username, err)
		return
	}
	if err := store.UpdatePasswordHash(ctx, c.db, user.ID, hash); err != nil {
		log.Printf("store upgraded password for %q: %v", user.Username, err)
		return
	}
	user.PasswordHash = hash
}

// Register creates an employee account.
func (c *Credentials) Register(ctx context.Context, username, password string) (*models.User, error) {
	return c.CreateUser(ctx, username, password, models.RoleEmployee)
}

func (c *Credentials) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if _, ok := models.ParseRole(string(role)); !ok {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return store.CreateUser(ctx, c.db, username, hash, role)
}

// UpdateUser changes username and role, and the password when one is
// given.
func (c *Credentials) UpdateUser(ctx context.Context, id int64, username, password string, role models.Role) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if _, ok := models.ParseRole(string(role)); !ok {
		return ErrInvalidRole
	}

	var hash string
	if password != "" {
		var err error
		if hash, err = HashPassword(password); err != nil {
			return err
		}
	}

	return store.UpdateUser(ctx, c.db, id, username, hash, role)
}

func (c *Credentials) DeleteUser(ctx context.Context, id int64) error {
	return store.DeleteUser(ctx, c.db, id)
}

func (c *Credentials) ListEmployees(ctx context.Context, search string) ([]models.User, error) {
	return store.ListEmployees(ctx, c.db, search)
}

// EnsureAdmin creates an admin account when the users table is empty. It
// reports whether an account was created.
func (c *Credentials) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}

	total, err := store.CountUsers(ctx, c.db)
	if err != nil {
		return false, err
	}
	if total > 0 {
		return false, nil
	}

	if _, err := c.CreateUser(ctx, username, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
