// Package errors defines the sentinel errors shared across the engine and
// helpers for classifying them at the HTTP boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrIndexNotFound is returned when no inverted index exists on disk.
	// The caller should run an index build first.
	ErrIndexNotFound = errors.New("index not found")

	// ErrCorruptIndex is returned when the persisted index file violates the
	// on-disk format. The load is aborted.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrDecode is returned when a postings byte stream cannot be decoded.
	// With lazy decoding this poisons a single term, not the whole index.
	ErrDecode = errors.New("postings decode failed")

	// ErrDocumentDecode is returned when a document's text cannot be decoded.
	// The document is skipped; the build carries on.
	ErrDocumentDecode = errors.New("document decode failed")

	// ErrInvalidQuery is returned for boolean expressions that fail to parse.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRepoNotFound is returned when a command runs outside an initialised
	// repository directory.
	ErrRepoNotFound = errors.New("repository not initialised")
)

// EngineError wraps a sentinel with operation context (term, path, offset).
type EngineError struct {
	Err     error
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Wrap attaches a formatted message to a sentinel error.
func Wrap(sentinel error, format string, args ...any) *EngineError {
	return &EngineError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// HTTPStatusCode maps an error to the HTTP status the search API should
// return for it.
func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrIndexNotFound), errors.Is(err, ErrRepoNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
