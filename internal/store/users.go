package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
)

func CreateUser(ctx context.Context, q Querier, username, passwordHash string, role models.Role) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash, Role: role}

	query := `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := q.QueryRowContext(ctx, query, username, passwordHash, string(role)).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrUsernameTaken
		}
		return nil, database.Wrap("create user", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, q Querier, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password, role
		FROM users
		WHERE id = $1`

	user, err := scanUser(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, database.Wrap("get user", err)
	}

	return user, nil
}

func GetUserByUsername(ctx context.Context, q Querier, username string) (*models.User, error) {
	query := `
		SELECT id, username, password, role
		FROM users
		WHERE username = $1`

	user, err := scanUser(q.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, database.Wrap("get user by username", err)
	}

	return user, nil
}

// UpdateUser changes username and role. The stored password is replaced
// only when passwordHash is non-empty.
func UpdateUser(ctx context.Context, q Querier, id int64, username, passwordHash string, role models.Role) error {
	var (
		result sql.Result
		err    error
	)
	if passwordHash == "" {
		result, err = q.ExecContext(ctx,
			`UPDATE users SET username = $1, role = $2 WHERE id = $3`,
			username, string(role), id)
	} else {
		result, err = q.ExecContext(ctx,
			`UPDATE users SET username = $1, password = $2, role = $3 WHERE id = $4`,
			username, passwordHash, string(role), id)
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return database.ErrUsernameTaken
		}
		return database.Wrap("update user", err)
	}

	return checkAffected("update user", result, database.ErrUserNotFound)
}

func UpdatePasswordHash(ctx context.Context, q Querier, id int64, passwordHash string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return database.Wrap("update password", err)
	}

	return checkAffected("update password", result, database.ErrUserNotFound)
}

func DeleteUser(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.Wrap("delete user", err)
	}

	return checkAffected("delete user", result, database.ErrUserNotFound)
}

// ListEmployees returns users with the employee role whose username contains
// search, ignoring case. An empty search matches every employee.
func ListEmployees(ctx context.Context, q Querier, search string) ([]models.User, error) {
	query := `
		SELECT id, username, password, role
		FROM users
		WHERE role = $1 AND LOWER(username) LIKE $2 ESCAPE '\'
		ORDER BY id`

	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(search))) + "%"

	rows, err := q.QueryContext(ctx, query, string(models.RoleEmployee), pattern)
	if err != nil {
		return nil, database.Wrap("list employees", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, database.Wrap("scan user", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list employees", err)
	}

	return users, nil
}

func CountUsers(ctx context.Context, q Querier) (int64, error) {
	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, database.Wrap("count users", err)
	}
	return total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role); err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return &user, nil
}
