package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField matches a required field that has no value in any source
	ErrMissingField = errors.New("missing required field")
	// ErrTypeCoercion matches a raw value that cannot be parsed as its field type
	ErrTypeCoercion = errors.New("invalid value")
	// ErrOutOfRange matches a numeric value outside its declared bounds
	ErrOutOfRange = errors.New("value out of range")
)

// ErrorKind classifies a FieldError
type ErrorKind int

const (
	MissingRequiredField ErrorKind = iota
	TypeCoercionError
	RangeValidationError
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case TypeCoercionError:
		return "TypeCoercionError"
	case RangeValidationError:
		return "RangeValidationError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case TypeCoercionError:
		return ErrTypeCoercion
	case RangeValidationError:
		return ErrOutOfRange
	default:
		return ErrMissingField
	}
}

// FieldError describes why a single field failed to load
type FieldError struct {
	Kind    ErrorKind
	Section string
	Field   string
	Key     string
	// Value is the offending raw value; empty for MissingRequiredField
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("%s.%s: %v (set %s)", e.Section, e.Field, ErrMissingField, e.Key)
	case TypeCoercionError:
		return fmt.Sprintf("%s.%s: %v %q from %s: %v", e.Section, e.Field, ErrTypeCoercion, e.Value, e.Key, e.Err)
	default:
		return fmt.Sprintf("%s.%s: %v: %v", e.Section, e.Field, e.Kind.sentinel(), e.Err)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// ValidationError is returned by Load when one or more fields fail
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("settings validation failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Field returns the first error for section.field, or nil
func (e *ValidationError) Field(section, field string) *FieldError {
	for _, fe := range e.Errors {
		if fe.Section == section && fe.Field == field {
			return fe
		}
	}
	return nil
}
