// Package mongostore is the document backend. Tasks are stored as single
// documents with their comments and copy history embedded.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/store"
)

const (
	tasksCollection    = "tasks"
	usersCollection    = "users"
	projectsCollection = "projects"
	settingsCollection = "settings"

	disconnectTimeout = 5 * time.Second
)

var (
	_ store.Backend       = (*Store)(nil)
	_ store.CopyCommitter = (*Store)(nil)
)

// Store is a MongoDB-backed store.Backend
type Store struct {
	client   *mongo.Client
	tasks    *mongo.Collection
	users    *mongo.Collection
	projects *mongo.Collection
	settings *mongo.Collection
	now      func() time.Time
}

// Connect dials uri, checks the server is reachable and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrap("connect", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, wrap("ping", err)
	}

	s := New(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an existing client
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		tasks:    db.Collection(tasksCollection),
		users:    db.Collection(usersCollection),
		projects: db.Collection(projectsCollection),
		settings: db.Collection(settingsCollection),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignee_id", Value: 1}, {Key: "week_of", Value: -1}}},
		{Keys: bson.D{{Key: "original_task_id", Value: 1}}},
	})
	return wrap("create indexes", err)
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Get retrieves a task by ID
func (s *Store) Get(ctx context.Context, id string) (*models.Task, error) {
	var d taskDoc
	err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get task", err)
	}
	t := d.toModel()
	return &t, nil
}

// Query returns the tasks matching f
func (s *Store) Query(ctx context.Context, f models.Filter) ([]models.Task, error) {
	cursor, err := s.tasks.Find(ctx, filterDoc(f), options.Find().SetSort(sortDoc(f.Sort)))
	if err != nil {
		return nil, wrap("query tasks", err)
	}
	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap("query tasks", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	// Mongo sorts empty due dates first; move them last
	if f.Sort == models.SortDueDate {
		models.SortTasks(tasks, models.SortDueDate)
	}
	return tasks, nil
}

// filterDoc translates f into a query document. It must select exactly the
// tasks Filter.Matches accepts.
func filterDoc(f models.Filter) bson.M {
	q := bson.M{}
	if f.AssigneeID != "" {
		q["assignee_id"] = f.AssigneeID
	}
	if len(f.Weeks) > 0 {
		q["week_of"] = bson.M{"$in": f.Weeks}
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		q["status"] = bson.M{"$in": statuses}
	}
	if f.Priority != "" {
		q["priority"] = string(f.Priority)
	}
	if f.ProjectID != "" {
		q["project_id"] = f.ProjectID
	}
	if f.OriginalTaskID != "" {
		q["original_task_id"] = f.OriginalTaskID
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"ticket_number": re},
		}
	}
	return q
}

func sortDoc(order models.SortOrder) bson.D {
	if order == models.SortDueDate {
		return bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: "week_of", Value: -1}, {Key: "created_at", Value: -1}}
}

// Create inserts a new task document
func (s *Store) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	d := s.newTaskDoc(t)
	if _, err := s.tasks.InsertOne(ctx, d); err != nil {
		return nil, wrap("create task", err)
	}
	created := d.toModel()
	return &created, nil
}

func (s *Store) newTaskDoc(t *models.Task) taskDoc {
	now := s.now()
	d := toTaskDoc(t)
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now
	for i := range d.Comments {
		d.Comments[i].ID = uuid.NewString()
		if d.Comments[i].CreatedAt.IsZero() {
			d.Comments[i].CreatedAt = now
		}
	}
	return d
}

// Update merges u into the stored task
func (s *Store) Update(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	return s.update(ctx, id, u)
}

func (s *Store) update(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := current.CopyHistory
	u.Apply(current)
	if u.CopyHistory != nil {
		if err := models.ValidateHistoryAppend(id, prev, current.CopyHistory); err != nil {
			return nil, err
		}
	}
	current.UpdatedAt = s.now()

	d := toTaskDoc(current)
	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateDoc(d)})
	if err != nil {
		return nil, wrap("update task", err)
	}
	if res.MatchedCount == 0 {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	updated := d.toModel()
	return &updated, nil
}

// updateDoc lists the fields an update may touch. Comments are only changed
// through AddComment.
func updateDoc(d taskDoc) bson.M {
	return bson.M{
		"title":           d.Title,
		"description":     d.Description,
		"status":          d.Status,
		"priority":        d.Priority,
		"assignee_id":     d.AssigneeID,
		"project_id":      d.ProjectID,
		"week_of":         d.WeekOf,
		"due_date":        d.DueDate,
		"estimated_hours": d.EstimatedHours,
		"actual_hours":    d.ActualHours,
		"progress":        d.Progress,
		"ticket_number":   d.TicketNumber,
		"tags":            d.Tags,
		"copy_history":    d.CopyHistory,
		"updated_at":      d.UpdatedAt,
	}
}

// CommitCopy inserts cp and appends history to the source in a single
// transaction. The server must be a replica set member.
func (s *Store) CommitCopy(ctx context.Context, cp *models.Task, sourceID string, history []models.CopyHistoryEntry) (*models.Task, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, wrap("start session", err)
	}
	defer sess.EndSession(ctx)

	d := s.newTaskDoc(cp)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.tasks.InsertOne(sc, d); err != nil {
			return nil, wrap("insert copy", err)
		}
		return s.update(sc, sourceID, models.HistoryUpdate(history))
	})
	if err != nil {
		return nil, err
	}
	created := d.toModel()
	return &created, nil
}

// Delete deletes a task document
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete task", err)
	}
	if res.DeletedCount == 0 {
		return wkerrors.TaskNotFoundError{ID: id}
	}
	return nil
}

// AddComment pushes a comment onto a task document
func (s *Store) AddComment(ctx context.Context, c models.TaskComment) (*models.TaskComment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "comment", Reason: "content required"}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()

	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": c.TaskID}, bson.M{
		"$push": bson.M{"comments": commentDoc{ID: c.ID, UserID: c.UserID, Content: c.Content, CreatedAt: c.CreatedAt}},
		"$set":  bson.M{"updated_at": c.CreatedAt},
	})
	if err != nil {
		return nil, wrap("add comment", err)
	}
	if res.MatchedCount == 0 {
		return nil, wkerrors.TaskNotFoundError{ID: c.TaskID}
	}
	return &c, nil
}

// wrap annotates a driver error with op. Network errors and timeouts are
// marked transient so the engine may retry them.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return wkerrors.TransientError{Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}
