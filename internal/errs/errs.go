package errs

import "fmt"

// ValidationError reports a single malformed field value. Messages are
// templated and never echo the submitted value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvariantViolationError reports a broken cross-field or cross-entity rule.
// The whole write is rejected, nothing is partially applied.
type InvariantViolationError struct {
	Rule   string
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Rule, e.Reason)
}

func Invariant(rule, reason string) *InvariantViolationError {
	return &InvariantViolationError{Rule: rule, Reason: reason}
}

// ReferenceNotFoundError reports a foreign reference to a missing row.
type ReferenceNotFoundError struct {
	Field string
	ID    string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s %s does not exist", e.Field, e.ID)
}

func ReferenceNotFound(field, id string) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Field: field, ID: id}
}

// AuthorizationError reports a mutation the actor is not allowed to make.
// Distinct from validation so callers can branch on 401/403 semantics.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

func Authorization(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

// ConcurrencyConflictError means the atomic capacity check detected a lost
// race. The caller should retry the whole operation.
type ConcurrencyConflictError struct {
	Reason string
}

func (e *ConcurrencyConflictError) Error() string {
	return "concurrency conflict: " + e.Reason
}

func ConcurrencyConflict(reason string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Reason: reason}
}
