package db

import (
	"context"
	"database/sql"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

// PutProject inserts a project or replaces the one with the same ID
func (db *DB) PutProject(ctx context.Context, p models.Project) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, category, color) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category, color = excluded.color
	`, p.ID, p.Name, p.Category, p.Color)
	return wrap("put project", err)
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, category, color
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Category, &p.Color)
	if err == sql.ErrNoRows {
		return nil, wkerrors.ProjectNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get project", err)
	}
	return p, nil
}

// ListProjects returns all projects
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, color
		FROM projects ORDER BY name
	`)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Color); err != nil {
			return nil, wrap("scan project", err)
		}
		projects = append(projects, p)
	}
	return projects, wrap("list projects", rows.Err())
}
