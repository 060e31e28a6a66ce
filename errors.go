package wallgeom

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a geometric failure.
type ErrorKind string

// Geometric error taxonomy.
const (
	ErrOffsetFailure        ErrorKind = "offset_failure"
	ErrBooleanFailure       ErrorKind = "boolean_failure"
	ErrSelfIntersection     ErrorKind = "self_intersection"
	ErrDegenerateGeometry   ErrorKind = "degenerate_geometry"
	ErrToleranceExceeded    ErrorKind = "tolerance_exceeded"
	ErrNumericalInstability ErrorKind = "numerical_instability"
)

// Severity grades an issue or error.
type Severity string

// Severity levels, in increasing order.
const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// GeometricError describes a failure inside a pipeline stage.
// Stages do not panic across their boundaries: recoverable errors travel
// inside result structs, and only structurally invalid input surfaces a
// GeometricError through a function's error return.
type GeometricError struct {
	Kind        ErrorKind
	Severity    Severity
	Operation   string
	Message     string
	Metadata    map[string]any
	Recoverable bool
}

// Error implements the error interface.
func (e *GeometricError) Error() string {
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Operation, e.Message)
}

// NewGeometricError creates an error of the given kind for an operation.
func NewGeometricError(kind ErrorKind, operation, format string, args ...any) *GeometricError {
	return &GeometricError{
		Kind:      kind,
		Severity:  SeverityError,
		Operation: operation,
		Message:   fmt.Sprintf(format, args...),
	}
}

// WithSeverity sets the severity and returns the error for chaining.
func (e *GeometricError) WithSeverity(s Severity) *GeometricError {
	e.Severity = s
	return e
}

// WithMeta attaches a metadata key/value pair and returns the error.
func (e *GeometricError) WithMeta(key string, value any) *GeometricError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// AsRecoverable marks the error recoverable and returns it.
func (e *GeometricError) AsRecoverable() *GeometricError {
	e.Recoverable = true
	return e
}

// IsGeometricError extracts a GeometricError from an error chain.
func IsGeometricError(err error) (*GeometricError, bool) {
	var ge *GeometricError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
