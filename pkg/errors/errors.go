package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// NotFoundError represents a resource that was not found
type NotFoundError struct {
	Resource string
	ID       string
	Cause    string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return "NOT_FOUND"
}

// NewNotFoundError creates a NotFoundError with a stable cause string
func NewNotFoundError(resource, id, cause string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Cause: cause}
}

// ValidationError represents invalid input
type ValidationError struct {
	Field   string
	Message string
	Cause   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return CauseValidationError
}

// NewValidationError creates a plain ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationCause creates a ValidationError with a specific cause string
func NewValidationCause(cause, message string) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

// PermissionError represents insufficient rights: a principal is present but
// the role/ownership/visibility/group chain denied the action.
type PermissionError struct {
	Action   string
	Resource string
	Cause    string
}

func (e *PermissionError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("permission denied: cannot %s %s", e.Action, e.Resource)
	}
	return fmt.Sprintf("permission denied: %s", e.Action)
}

func (e *PermissionError) HTTPStatus() int {
	return http.StatusForbidden
}

func (e *PermissionError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return "PERMISSION_DENIED"
}

// NewPermissionError creates a PermissionError with a stable cause string
func NewPermissionError(action, resource, cause string) *PermissionError {
	return &PermissionError{Action: action, Resource: resource, Cause: cause}
}

// UnauthorizedError represents a missing or invalid principal. Always 401,
// never conflated with 403.
type UnauthorizedError struct {
	Reason string
	Cause  string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unauthorized: %s", e.Reason)
	}
	return "unauthorized"
}

func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

func (e *UnauthorizedError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return CauseUserNotAuthenticated
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// ConflictError represents a conflict with existing state
type ConflictError struct {
	Resource string
	Message  string
	Cause    string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("%s conflicts with existing state", e.Resource)
}

func (e *ConflictError) HTTPStatus() int {
	return http.StatusConflict
}

func (e *ConflictError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return "CONFLICT"
}

// NewConflictError creates a ConflictError with a stable cause string
func NewConflictError(resource, message, cause string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message, Cause: cause}
}

// InternalError represents an unexpected failure caught at a use-case
// boundary. The original error is wrapped for logging and never leaked to the
// caller beyond the cause string.
type InternalError struct {
	Cause   string
	Wrapped error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Cause)
}

func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *InternalError) Code() string {
	if e.Cause != "" {
		return e.Cause
	}
	return "INTERNAL_ERROR"
}

func (e *InternalError) Unwrap() error {
	return e.Wrapped
}

// NewInternalError creates an InternalError with a use-case-specific cause
func NewInternalError(cause string, wrapped error) *InternalError {
	return &InternalError{Cause: cause, Wrapped: wrapped}
}

// Helper functions for error checking

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// IsPermission checks if an error is a PermissionError
func IsPermission(err error) bool {
	var permission *PermissionError
	return errors.As(err, &permission)
}

// IsUnauthorized checks if an error is an UnauthorizedError
func IsUnauthorized(err error) bool {
	var unauthorized *UnauthorizedError
	return errors.As(err, &unauthorized)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// GetHTTPStatus returns the HTTP status code for an error.
// Returns 500 if the error doesn't implement AppError.
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the stable cause string for an error.
// Returns "UNKNOWN_ERROR" if the error doesn't implement AppError.
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	return ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
	}
}
