package user

import (
	"errors"
	"net/http"

	"github.com/plusprep/backend/internal/model"
)

// statusForError maps domain errors onto HTTP status codes so every
// handler in this package reports them consistently.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownQuestion):
		return http.StatusNotFound
	case errors.Is(err, model.ErrQuestionNotInSession):
		return http.StatusNotFound
	case errors.Is(err, model.ErrMalformedAnswerShape):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrDuplicateSubmission),
		errors.Is(err, model.ErrSessionNotActive),
		errors.Is(err, model.ErrAlreadyCompleted),
		errors.Is(err, model.ErrWrongSection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
