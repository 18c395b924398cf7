// Package apperror defines the error taxonomy shared by the conversion engine,
// mapping management and the CLI. Every failure that reaches a caller carries a
// Kind so the caller can pick the right remedy (add a density, add a mapping,
// fix the input) without parsing message text.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnitNotFound             Kind = "UNIT_NOT_FOUND"
	KindNegativeOrZeroQuantity   Kind = "NEGATIVE_OR_ZERO_QUANTITY"
	KindNoConversionPath         Kind = "NO_CONVERSION_PATH"
	KindMissingDensity           Kind = "MISSING_DENSITY"
	KindMissingIngredientMapping Kind = "MISSING_INGREDIENT_MAPPING"
	KindValidation               Kind = "VALIDATION_ERROR"
	KindIngredientNotFound       Kind = "INGREDIENT_NOT_FOUND"
	KindConflict                 Kind = "CONFLICT"
	KindInternal                 Kind = "INTERNAL"
)

// Error is the canonical error envelope. Fields is only populated for
// validation failures.
type Error struct {
	Kind   Kind              `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Detail: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NewValidation wraps multiple field errors.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: "invalid input", Fields: fields}
}

// KindOf returns the Kind carried by err, or KindInternal when err does not
// wrap an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
