package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// NotFound returns a NOT_FOUND error naming the missing resource.
func NotFound(resource string) *DomainError {
	return NewDomainError("NOT_FOUND", resource+" not found")
}

// AlreadyExists returns an ALREADY_EXISTS error naming the conflicting resource.
func AlreadyExists(resource string) *DomainError {
	return NewDomainError("ALREADY_EXISTS", resource+" with the same code already exists")
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrNotFound.Code
}

// IsAlreadyExists reports whether err is an ALREADY_EXISTS domain error
func IsAlreadyExists(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrAlreadyExists.Code
}

// Reference is a count of records in one dependent collection that point
// at the record being deleted.
type Reference struct {
	Resource string `json:"resource"`
	Label    string `json:"label"`
	Count    int64  `json:"count"`
}

// ReferencedError is returned when a delete is blocked by dependent records.
type ReferencedError struct {
	Entity     string
	References []Reference
}

// Error implements the error interface
func (e *ReferencedError) Error() string {
	return fmt.Sprintf("%s cannot be deleted: referenced by %s", e.Entity, DescribeReferences(e.References))
}

// DescribeReferences renders refs as "5 city(ies), 12 profile(s)"
func DescribeReferences(refs []Reference) string {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, fmt.Sprintf("%d %s", ref.Count, ref.Label))
	}
	return strings.Join(parts, ", ")
}

// Code returns the error code used by the HTTP layer
func (e *ReferencedError) Code() string {
	return "REFERENCED"
}
