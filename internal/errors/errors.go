//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"errors"
	"fmt"
)

// InvalidArgumentError indicates a missing or malformed argument. It is
// returned before any write reaches the store.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStatusError indicates an unknown task status.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: todo, in-progress, completed, blocked)", e.Value)
}

// InvalidPriorityError indicates an unknown task priority.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: low, medium, high, urgent)", e.Value)
}

// TaskNotFoundError indicates the task ID doesn't match any record.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// UserNotFoundError indicates the user ID doesn't match any record.
type UserNotFoundError struct {
	ID string
}

func (e UserNotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s", e.ID)
}

// ProjectNotFoundError indicates the project ID doesn't match any record.
type ProjectNotFoundError struct {
	ID string
}

func (e ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// HistoryRewriteError indicates an update tried to shorten or edit a task's
// copy history instead of appending to it.
type HistoryRewriteError struct {
	TaskID string
}

func (e HistoryRewriteError) Error() string {
	return fmt.Sprintf("task %s: copy history is append-only", e.TaskID)
}

// PartialCopyError indicates the copied task was created but the source
// task's copy history could not be updated.
type PartialCopyError struct {
	CopyID   string
	SourceID string
	Err      error
}

func (e PartialCopyError) Error() string {
	return fmt.Sprintf("task %s copied to %s but source history update failed: %v", e.SourceID, e.CopyID, e.Err)
}

func (e PartialCopyError) Unwrap() error {
	return e.Err
}

// TransientError marks a store failure that may succeed if retried.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e TransientError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	var te TaskNotFoundError
	var ue UserNotFoundError
	var pe ProjectNotFoundError
	return errors.As(err, &te) || errors.As(err, &ue) || errors.As(err, &pe)
}

// IsValidation reports whether err was raised by argument validation.
func IsValidation(err error) bool {
	var ae InvalidArgumentError
	var se InvalidStatusError
	var pe InvalidPriorityError
	return errors.As(err, &ae) || errors.As(err, &se) || errors.As(err, &pe)
}

// IsTransient reports whether err is worth a retry.
func IsTransient(err error) bool {
	var te TransientError
	return errors.As(err, &te)
}
