// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("missing configuration")
)

// RemoteError reports a failed call to an upstream service.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed with status %d: %s", e.Status, e.Body)
}

// StorageError wraps a database failure with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err in a StorageError unless it is nil or already classified.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Validation builds an ErrValidation carrying a client facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// MissingConfiguration reports unset settings by name.
func MissingConfiguration(names ...string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(names, ", "))
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the detail that is safe to show to API clients.
func Message(err error) string {
	var storage *StorageError
	if errors.As(err, &storage) {
		return "erro ao acessar o banco de dados"
	}
	return err.Error()
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var remote *RemoteError
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrConfiguration):
		Problem(w, http.StatusInternalServerError, "Configuration Error", err.Error())
	case errors.As(err, &remote):
		JSON(w, http.StatusInternalServerError, ProblemDetail{
			Title:          "Remote Error",
			Status:         http.StatusInternalServerError,
			Detail:         err.Error(),
			UpstreamStatus: remote.Status,
			UpstreamBody:   remote.Body,
		})
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
