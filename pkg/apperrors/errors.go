// Package apperrors defines the error taxonomy for query resolution and
// execution. Every failure is an explicit value; data absence (ErrNotFound) is
// never conflated with failure (StorageError, ExecutionError).
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup key matches no query definition.
	// It is a normal, expected outcome, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrValidation is the class sentinel for caller-input problems.
	// errors.Is(err, ErrValidation) matches every validation error subtype.
	ErrValidation = errors.New("validation failed")
)

// StorageError reports a metadata integrity violation or a connectivity
// failure while reading the catalog tables. It is unrecoverable locally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MissingParameterError reports a required parameter absent from the
// caller-supplied arguments.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter '%s' is missing", e.Name)
}

func (e *MissingParameterError) Is(target error) bool { return target == ErrValidation }

// TypeMismatchError reports a raw argument value that cannot be coerced into
// the parameter's declared type. It carries everything the caller needs to
// correct the input.
type TypeMismatchError struct {
	Name         string
	DeclaredType string
	RawValue     string
	Reason       error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter '%s': value %q is not a valid %s: %v",
		e.Name, e.RawValue, e.DeclaredType, e.Reason)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrValidation }

func (e *TypeMismatchError) Unwrap() error { return e.Reason }

// InjectionError reports an argument value rejected by the injection screen
// before it could reach the driver.
type InjectionError struct {
	Name        string
	Fingerprint string
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("parameter '%s': potential SQL injection detected (fingerprint %s)", e.Name, e.Fingerprint)
}

func (e *InjectionError) Is(target error) bool { return target == ErrValidation }

// ExecutionError wraps a failure reported by the backing database while
// executing a statement. It is passed through verbatim, never interpreted or
// retried here.
type ExecutionError struct {
	ItemKey string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing query '%s': %v", e.ItemKey, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// MappingError reports a result row that could not be mapped into the
// caller-requested record shape.
type MappingError struct {
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping result rows: %v", e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
