package recommend

import (
	"errors"
	"fmt"
)

// Error kinds, matched with errors.Is.
var (
	// ErrInvalidConfig marks a misconfigured engine, such as weights that do not sum to 1.
	ErrInvalidConfig = errors.New("invalid engine configuration")
	// ErrCorruptCatalog marks dish data that violates catalog invariants, such as negative macros.
	ErrCorruptCatalog = errors.New("corrupt dish catalog")
)

// Error represents a hard failure of a recommendation request
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}
