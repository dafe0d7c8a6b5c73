package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

// PutUser upserts a user
func (s *Store) PutUser(ctx context.Context, u models.User) error {
	d := userDoc{ID: u.ID, Email: u.Email, Name: u.Name, LongName: u.LongName, Role: u.Role, Department: u.Department}
	_, err := s.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, d, options.Replace().SetUpsert(true))
	return wrap("put user", err)
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var d userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wkerrors.UserNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get user", err)
	}
	u := d.toModel()
	return &u, nil
}

// ListUsers returns all users ordered by name
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{}, byName)
	if err != nil {
		return nil, wrap("list users", err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap("list users", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

// PutProject upserts a project
func (s *Store) PutProject(ctx context.Context, p models.Project) error {
	d := projectDoc{ID: p.ID, Name: p.Name, Category: p.Category, Color: p.Color}
	_, err := s.projects.ReplaceOne(ctx, bson.M{"_id": p.ID}, d, options.Replace().SetUpsert(true))
	return wrap("put project", err)
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var d projectDoc
	err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wkerrors.ProjectNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get project", err)
	}
	p := d.toModel()
	return &p, nil
}

// ListProjects returns all projects ordered by name
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	cursor, err := s.projects.Find(ctx, bson.M{}, byName)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap("list projects", err)
	}
	projects := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, d.toModel())
	}
	return projects, nil
}

// GetSetting retrieves a setting value by key
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var d settingDoc
	err := s.settings.FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", wrap("get setting", err)
	}
	return d.Value, nil
}

// SetSetting sets a setting value
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.settings.ReplaceOne(ctx, bson.M{"_id": key}, settingDoc{Key: key, Value: value}, options.Replace().SetUpsert(true))
	return wrap("set setting", err)
}
