//nolint:testpackage // Tests require internal access for thorough testing
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

// memStore is an in-memory Store that records calls and can inject failures.
type memStore struct {
	mu       sync.Mutex
	tasks    map[string]*models.Task
	users    map[string]models.User
	projects map[string]models.Project
	seq      int
	calls    []string

	// fail maps a method name to errors returned by its next calls, in order
	fail map[string][]error
}

func newMemStore() *memStore {
	return &memStore{
		tasks:    map[string]*models.Task{},
		users:    map[string]models.User{"u1": {ID: "u1", Name: "Anna", Email: "anna@example.com"}},
		projects: map[string]models.Project{"p1": {ID: "p1", Name: "Finance"}},
		fail:     map[string][]error{},
	}
}

func (m *memStore) failNext(method string, errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[method] = append(m.fail[method], errs...)
}

func (m *memStore) enter(method string) error {
	m.calls = append(m.calls, method)
	if errs := m.fail[method]; len(errs) > 0 {
		m.fail[method] = errs[1:]
		return errs[0]
	}
	return nil
}

func (m *memStore) count(method string) int {
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *memStore) put(t *models.Task) *models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := t.Clone()
	if c.ID == "" {
		m.seq++
		c.ID = fmt.Sprintf("task-%d", m.seq)
	}
	m.tasks[c.ID] = c
	return c.Clone()
}

func (m *memStore) Get(_ context.Context, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Get"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	return t.Clone(), nil
}

func (m *memStore) Query(_ context.Context, f models.Filter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Query"); err != nil {
		return nil, err
	}
	all := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		all = append(all, *t.Clone())
	}
	return f.Apply(all), nil
}

func (m *memStore) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	if err := m.enter("Create"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()
	c := t.Clone()
	c.ID = ""
	c.CreatedAt = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	return m.put(c), nil
}

func (m *memStore) Update(_ context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Update"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	next := t.Clone()
	u.Apply(next)
	if u.CopyHistory != nil {
		if err := models.ValidateHistoryAppend(id, t.CopyHistory, next.CopyHistory); err != nil {
			return nil, err
		}
	}
	m.tasks[id] = next
	return next.Clone(), nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Delete"); err != nil {
		return err
	}
	if _, ok := m.tasks[id]; !ok {
		return wkerrors.TaskNotFoundError{ID: id}
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) AddComment(_ context.Context, c models.TaskComment) (*models.TaskComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AddComment"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[c.TaskID]
	if !ok {
		return nil, wkerrors.TaskNotFoundError{ID: c.TaskID}
	}
	c.ID = fmt.Sprintf("c-%d", len(t.Comments)+1)
	t.Comments = append(t.Comments, c)
	return &c, nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, wkerrors.UserNotFoundError{ID: id}
	}
	return &u, nil
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, wkerrors.ProjectNotFoundError{ID: id}
	}
	return &p, nil
}

func (m *memStore) ListProjects(context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Project
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

// committingStore adds an atomic CommitCopy to memStore
type committingStore struct {
	*memStore
	commits int
}

func (c *committingStore) CommitCopy(ctx context.Context, cp *models.Task, sourceID string, history []models.CopyHistoryEntry) (*models.Task, error) {
	c.mu.Lock()
	if err := c.enter("CommitCopy"); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	src, ok := c.tasks[sourceID]
	if !ok {
		c.mu.Unlock()
		return nil, wkerrors.TaskNotFoundError{ID: sourceID}
	}
	if err := models.ValidateHistoryAppend(sourceID, src.CopyHistory, history); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	src.CopyHistory = append([]models.CopyHistoryEntry(nil), history...)
	c.commits++
	c.mu.Unlock()
	return c.put(cp), nil
}

type recordingNotifier struct {
	user  models.User
	tasks []models.Task
	week  string
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, user models.User, tasks []models.Task, weekKey string) error {
	r.user, r.tasks, r.week = user, tasks, weekKey
	return r.err
}
