package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/importer"
	"github.com/jonathan/resume-editor/internal/llm"
)

// ErrValidation indicates request payload validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Stale suggestions and exhausted undo map to 409: the request was well
// formed but the document state no longer admits it. Completion failures
// map to 502 since the upstream model, not this server, failed.
func HTTPStatus(err error) int {
	var (
		invalidRange  *editor.ErrInvalidRange
		validation    *ErrValidation
		unsupported   *importer.ErrUnsupportedFormat
		sectionGone   *editor.ErrSectionNotFound
		sugGone       *editor.ErrSuggestionNotFound
		sessionGone   *ErrSessionNotFound
		notReady      *editor.ErrSuggestionNotReady
		stale         *editor.ErrStaleSuggestion
		nothingToUndo *editor.ErrNothingToUndo
		completion    *llm.CompletionError
	)

	switch {
	case errors.As(err, &invalidRange), errors.As(err, &validation), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &sectionGone), errors.As(err, &sugGone), errors.As(err, &sessionGone):
		return http.StatusNotFound
	case errors.As(err, &notReady), errors.As(err, &stale), errors.As(err, &nothingToUndo):
		return http.StatusConflict
	case errors.As(err, &completion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
