package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents an expected, recoverable-by-caller failure.
// Code is machine-readable and stable; Message is for humans.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is allows errors.Is matching on the error code, so sentinel errors below
// can be compared against wrapped or re-created instances.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrUnauthenticated     = NewDomainError("UNAUTHENTICATED", "No resolvable identity")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrTenantSuspended     = NewDomainError("TENANT_SUSPENDED", "Tenant suspended")
	ErrModuleNotLicensed   = NewDomainError("MODULE_NOT_LICENSED", "Module not enabled for this tenant")
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidationFailed    = NewDomainError("VALIDATION_FAILED", "Invalid input provided")
	ErrModuleDependency    = NewDomainError("MODULE_DEPENDENCY", "Module dependency violated")
	ErrLastAdmin           = NewDomainError("LAST_ADMIN", "Cannot remove the last enabled tenant admin")
	ErrCapacityExceeded    = NewDomainError("CAPACITY_EXCEEDED", "Allocation would exceed parcel capacity")
	ErrAlreadyPosted       = NewDomainError("ALREADY_POSTED", "Document has already been posted")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInternal            = NewDomainError("INTERNAL_ERROR", "Internal error")
)

// HTTPStatus maps a domain error code to the HTTP status the transport
// layer should respond with. Cross-tenant access is masked as not-found
// upstream of this mapping, never here.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case "UNAUTHENTICATED":
		return http.StatusUnauthorized
	case "FORBIDDEN", "TENANT_SUSPENDED", "MODULE_NOT_LICENSED":
		return http.StatusForbidden
	case "NOT_FOUND":
		return http.StatusNotFound
	case "ALREADY_EXISTS", "CONCURRENCY_CONFLICT", "ALREADY_POSTED":
		return http.StatusConflict
	case "VALIDATION_FAILED", "MODULE_DEPENDENCY", "LAST_ADMIN", "CAPACITY_EXCEEDED":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
