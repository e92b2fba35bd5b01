package services

import (
	"errors"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/literal"
)

// IsInputError reports whether err was caused by user input rather than an internal failure.
func IsInputError(err error) bool {
	var pe *literal.ParseError
	var ce *domain.CanvasError
	return errors.Is(err, domain.ErrCountMismatch) ||
		errors.Is(err, domain.ErrNoData) ||
		errors.As(err, &pe) ||
		errors.As(err, &ce)
}

// UserMessage returns the single message shown to the user for err.
// Per-token detail is deliberately left out of parse failures.
func UserMessage(err error) string {
	var pe *literal.ParseError
	var ce *domain.CanvasError

	switch {
	case errors.Is(err, domain.ErrCountMismatch):
		return domain.ErrCountMismatch.Error()
	case errors.As(err, &pe):
		return "invalid numeric value (" + literal.FormatHint + ")"
	case errors.Is(err, domain.ErrNoData):
		return domain.ErrNoData.Error()
	case errors.As(err, &ce):
		return ce.Error()
	default:
		return "internal server error"
	}
}
