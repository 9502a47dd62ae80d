package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Authentication and authorization failures.
var (
	ErrMissingToken       = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserInactive       = errors.New("user not found or inactive")
	ErrTenantInactive     = errors.New("tenant inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTenantSuspended    = errors.New("account suspended")
	ErrForbidden          = errors.New("insufficient permissions")
)

// ErrInsufficientStock is returned when a decrement would leave a negative quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ValidationError reports missing required fields or an operation the
// resource does not accept.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return e.Reason
}

// MissingFields builds a ValidationError listing absent json field names.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{Missing: fields}
}

// Invalid builds a ValidationError for a rejected value or operation.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a record is absent or owned by another tenant.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError for the given entity name.
func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

type ConflictKind int

const (
	DuplicateKey ConflictKind = iota + 1
	HasDependents
	InProgress
)

// ConflictError is returned when a write collides with existing state.
type ConflictError struct {
	Kind    ConflictKind
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Duplicate reports a uniqueness collision.
func Duplicate(format string, args ...any) *ConflictError {
	return &ConflictError{Kind: DuplicateKey, Message: fmt.Sprintf(format, args...)}
}

// Dependents reports a delete blocked by referencing records.
func Dependents(format string, args ...any) *ConflictError {
	return &ConflictError{Kind: HasDependents, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
