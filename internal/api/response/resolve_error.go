package response

import (
	"errors"

	"github.com/tgienger/weekly/internal/engine"
	wkerrors "github.com/tgienger/weekly/internal/errors"
)

// ResolveError maps an engine or store error to its API error
func ResolveError(err error) Error {
	var (
		argErr      wkerrors.InvalidArgumentError
		statusErr   wkerrors.InvalidStatusError
		priorityErr wkerrors.InvalidPriorityError
		rewriteErr  wkerrors.HistoryRewriteError
		partialErr  wkerrors.PartialCopyError
	)

	switch {
	case errors.As(err, &argErr):
		ve := NewValidationError()
		ve.SetError(argErr.Field, InvalidValue, argErr.Reason)
		return ve
	case errors.As(err, &statusErr):
		ve := NewValidationError()
		ve.SetError("status", InvalidValue, statusErr.Error())
		return ve
	case errors.As(err, &priorityErr):
		ve := NewValidationError()
		ve.SetError("priority", InvalidValue, priorityErr.Error())
		return ve
	case wkerrors.IsNotFound(err):
		return NewNotFoundError(err.Error())
	case errors.As(err, &rewriteErr):
		return NewConflictError(rewriteErr.Error())
	case errors.As(err, &partialErr):
		return NewPartialCopyError(partialErr.Error())
	case errors.Is(err, engine.ErrNoNotifier):
		return NewUnavailableError()
	case wkerrors.IsTransient(err):
		return NewUnavailableError()
	default:
		return NewInternalError()
	}
}
