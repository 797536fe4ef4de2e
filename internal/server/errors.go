// Package server provides the HTTP REST API for the career assistant.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/career-assistant/internal/assessment"
	"github.com/jonathan/career-assistant/internal/backup"
	"github.com/jonathan/career-assistant/internal/export"
	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/resume"
	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/jonathan/career-assistant/internal/validation"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		ve   *validation.Error
		se   *schemas.ValidationError
		sle  *schemas.SchemaLoadError
		ie   *export.ImportError
		ufe  *export.UnsupportedFormatError
		ute  *resume.UnsupportedTypeError
		ee   *resume.ExtractError
		ge   *llm.GenerationError
		fe   *fetch.Error
		body *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ute):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &body):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve), errors.As(err, &se), errors.As(err, &sle),
		errors.As(err, &ie), errors.As(err, &ufe):
		return http.StatusBadRequest
	case errors.As(err, &ee), errors.Is(err, assessment.ErrAnswerCountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interview.ErrNotFound), errors.Is(err, profile.ErrNotFound), errors.Is(err, backup.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrInvalidTransition), errors.Is(err, interview.ErrSessionComplete),
		errors.Is(err, profile.ErrNameCollision):
		return http.StatusConflict
	case errors.As(err, &ge), errors.As(err, &fe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable companion to an error message.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusBadGateway:
		return "upstream_failure"
	default:
		return "internal_error"
	}
}
