// Package response renders API errors as a JSON envelope keyed by field.
package response

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// GeneralErrorKey holds errors that do not belong to one field
const GeneralErrorKey = "general"

// Error codes
const (
	MissedValue             = "missed_value"
	InvalidValue            = "invalid_value"
	InvalidRequestStructure = "invalid_request_structure"
	NotFound                = "not_found"
	Conflict                = "conflict"
	PartialCopy             = "partial_copy"
	Unavailable             = "unavailable"
	Internal                = "internal_error"
)

// ErrorMessage describes one failure
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is an API error with its HTTP status
type Error interface {
	error
	StatusCode() int
	Messages() map[string]ErrorMessage
}

type envelope struct {
	Errors map[string]ErrorMessage `json:"errors"`
}

type apiError struct {
	status   int
	messages map[string]ErrorMessage
}

func newError(status int, code, message string) *apiError {
	e := &apiError{status: status, messages: map[string]ErrorMessage{}}
	e.SetError(GeneralErrorKey, code, message)
	return e
}

func (e *apiError) Error() string {
	keys := make([]string, 0, len(e.messages))
	for k := range e.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.messages[k].Message)
	}
	return strings.Join(parts, "; ")
}

func (e *apiError) StatusCode() int { return e.status }

func (e *apiError) Messages() map[string]ErrorMessage { return e.messages }

// SetError records a message under key
func (e *apiError) SetError(key, code, message string) {
	e.messages[key] = ErrorMessage{Code: code, Message: message}
}

// ValidationError reports bad input, field by field
type ValidationError struct {
	*apiError
}

// NewValidationError starts a 400 error, optionally from existing field errors
func NewValidationError(errs ...map[string]ErrorMessage) *ValidationError {
	ve := &ValidationError{apiError: &apiError{status: http.StatusBadRequest, messages: map[string]ErrorMessage{}}}
	for _, m := range errs {
		for k, v := range m {
			ve.messages[k] = v
		}
	}
	return ve
}

func NewNotFoundError(message string) Error {
	return newError(http.StatusNotFound, NotFound, message)
}

func NewConflictError(message string) Error {
	return newError(http.StatusConflict, Conflict, message)
}

func NewPartialCopyError(message string) Error {
	return newError(http.StatusInternalServerError, PartialCopy, message)
}

func NewUnavailableError() Error {
	return newError(http.StatusServiceUnavailable, Unavailable, "storage temporarily unavailable, try again")
}

func NewInternalError() Error {
	return newError(http.StatusInternalServerError, Internal, "internal server error")
}

// HandleError aborts the request with err's status and envelope
func HandleError(err Error, c *gin.Context) {
	c.AbortWithStatusJSON(err.StatusCode(), envelope{Errors: err.Messages()})
}
