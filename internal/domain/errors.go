package domain

import "github.com/cockroachdb/errors"

// Error kinds surfaced by the scheduling core. Concrete errors carry one of
// these as a mark, so callers match with errors.Is while the message keeps
// the record id or dates involved.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

// NotFoundf builds an error marked as ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// InvalidInputf builds an error marked as ErrInvalidInput.
func InvalidInputf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

// InvalidStatef builds an error marked as ErrInvalidState.
func InvalidStatef(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidState)
}

// Conflictf builds an error marked as ErrConflict.
func Conflictf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConflict)
}
