// Package engine implements the task operations shared by every view: the
// copy/move engine, task CRUD with validation, and the weekly queries.
package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/notify"
	"github.com/tgienger/weekly/internal/store"
)

// ErrNoNotifier is returned by NotifyWeek when no notifier is configured.
var ErrNoNotifier = errors.New("no notifier configured")

// Store is the storage surface the engine needs
type Store interface {
	store.TaskStore
	store.CommentStore
	store.Directory
}

// Engine runs task operations against a Store
type Engine struct {
	store    Store
	notifier notify.Notifier
	log      *logrus.Entry
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithNotifier sets the weekly report notifier
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger sets the logger
func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how copy history entry ids are made
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an Engine over s
func New(s Store, opts ...Option) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{
		store: s,
		log:   logrus.NewEntry(discard),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// retry runs fn and runs it once more if the first error is transient.
func retry[T any](ctx context.Context, log *logrus.Entry, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil && wkerrors.IsTransient(err) && ctx.Err() == nil {
		log.WithError(err).Warn("transient store error, retrying once")
		v, err = fn(ctx)
	}
	return v, err
}

// retryErr is retry for calls that return only an error.
func retryErr(ctx context.Context, log *logrus.Entry, fn func(context.Context) error) error {
	_, err := retry(ctx, log, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// logFailure logs store failures. Validation and not-found errors are the
// caller's problem and are only logged at debug.
func logFailure(log *logrus.Entry, err error, msg string) {
	if wkerrors.IsValidation(err) || wkerrors.IsNotFound(err) {
		log.WithError(err).Debug(msg)
		return
	}
	log.WithError(err).Error(msg)
}
