// Package apperrors defines the typed failure taxonomy for the query pipeline.
// Every component converts its failures into one of these types at its own
// boundary; the orchestrator never sees an unclassified error.
package apperrors

import (
	"errors"
	"fmt"
)

// ConnectionError indicates the data source could not be reached or
// authenticated to. Fatal to the request, recoverable via reconnect.
type ConnectionError struct {
	Locator string // sanitized locator, safe to log and return
	Cause   error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed for %s: %v", e.Locator, e.Cause)
	}
	return fmt.Sprintf("connection failed for %s", e.Locator)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// SchemaExtractionError indicates introspection failed after a successful
// connection (connection lost mid-flight, insufficient privileges).
type SchemaExtractionError struct {
	Cause error
}

func (e *SchemaExtractionError) Error() string {
	return fmt.Sprintf("schema extraction failed: %v", e.Cause)
}

func (e *SchemaExtractionError) Unwrap() error { return e.Cause }

// ValidationError indicates SQL was rejected by the safety gate. The guard's
// reason is surfaced verbatim; the query is never rewritten.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "query validation failed: " + e.Reason
}

// ExecutionError indicates the driver failed or the query timed out.
// Messages have credentials stripped before they reach this type.
type ExecutionError struct {
	Timeout bool
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("query execution timed out: %v", e.Cause)
	}
	return fmt.Sprintf("query execution failed: %v", e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// TranslationError indicates the external translator failed or returned an
// unusable shape. Partial output already obtained is carried so callers can
// still show what was attempted.
type TranslationError struct {
	SQLQuery       string
	SQLExplanation string
	Cause          error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed: %v", e.Cause)
}

func (e *TranslationError) Unwrap() error { return e.Cause }

// IsTimeout reports whether err is an ExecutionError with the timeout kind.
func IsTimeout(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr) && execErr.Timeout
}
