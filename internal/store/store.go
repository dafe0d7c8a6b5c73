// Package store defines the storage contract shared by the SQLite and MongoDB
// backends.
package store

import (
	"context"

	"github.com/tgienger/weekly/internal/models"
)

// TaskStore is the task CRUD surface the engine and views depend on.
type TaskStore interface {
	// Get returns the task with its comments and copy history.
	// Unknown ids yield errors.TaskNotFoundError.
	Get(ctx context.Context, id string) (*models.Task, error)
	// Query returns tasks matching f, ordered by f.Sort.
	Query(ctx context.Context, f models.Filter) ([]models.Task, error)
	// Create assigns an id and timestamps and stores t with its comments and
	// history. The stored task is returned.
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	// Update merges u into the stored task. A copy history that does not
	// extend the stored one is rejected with errors.HistoryRewriteError.
	Update(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// CommentStore appends comments to tasks.
type CommentStore interface {
	AddComment(ctx context.Context, c models.TaskComment) (*models.TaskComment, error)
}

// Directory serves read-only reference data.
type Directory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
}

// Seeder inserts or replaces reference data. Only seeding and tests use it.
type Seeder interface {
	PutUser(ctx context.Context, u models.User) error
	PutProject(ctx context.Context, p models.Project) error
}

// Backend is everything a storage backend provides.
type Backend interface {
	TaskStore
	CommentStore
	Directory
	Seeder
	Preferences
	Close() error
}

// CopyCommitter is implemented by backends that can create a copy and append
// the new history to its source in one transaction.
type CopyCommitter interface {
	CommitCopy(ctx context.Context, cp *models.Task, sourceID string, history []models.CopyHistoryEntry) (*models.Task, error)
}

// Preferences persists small key/value settings such as the last board user.
// A missing key reads as the empty string.
type Preferences interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
