package db

import (
	"context"
	"database/sql"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

// PutUser inserts a user or replaces the one with the same ID
func (db *DB) PutUser(ctx context.Context, u models.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, long_name, role, department) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name,
			long_name = excluded.long_name, role = excluded.role, department = excluded.department
	`, u.ID, u.Email, u.Name, u.LongName, u.Role, u.Department)
	return wrap("put user", err)
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := db.QueryRowContext(ctx, `
		SELECT id, email, name, long_name, role, department
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.LongName, &u.Role, &u.Department)
	if err == sql.ErrNoRows {
		return nil, wkerrors.UserNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get user", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by name
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, email, name, long_name, role, department
		FROM users ORDER BY name
	`)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.LongName, &u.Role, &u.Department); err != nil {
			return nil, wrap("scan user", err)
		}
		users = append(users, u)
	}
	return users, wrap("list users", rows.Err())
}
