package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Error type identifiers
const (
	ErrorTypeValidation   = "VALIDATION_ERROR"
	ErrorTypeNotFound     = "NOT_FOUND"
	ErrorTypeForbidden    = "FORBIDDEN"
	ErrorTypeUnauthorized = "UNAUTHORIZED"
	ErrorTypeInternal     = "INTERNAL_ERROR"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// WithCode attaches a machine-readable code
func (e *ServiceError) WithCode(code string) *ServiceError {
	e.Code = code
	return e
}

// WithDetail attaches a single detail entry
func (e *ServiceError) WithDetail(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ===============================
// ERROR HELPERS
// ===============================

// GetServiceError extracts a ServiceError from an error chain, or wraps it as internal
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError("Internal server error", err)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Type == errorType
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return IsErrorType(err, ErrorTypeForbidden)
}

// ===============================
// COMMENT ERRORS
// ===============================

// Client-facing messages for comment operations
const (
	MsgPostAndTextRequired = "post_id and text are required"
	MsgTextRequired        = "Comment text is required"
	MsgTextTooLong         = "Comment text cannot exceed 500 characters"
	MsgPostNotFound        = "Post not found"
	MsgParentNotFound      = "Parent comment not found"
	MsgCommentNotFound     = "Comment not found"
	MsgEditForbidden       = "You can only edit your own comments"
	MsgDeleteForbidden     = "You can only delete your own comments"
	MsgCommentDeleted      = "Comment deleted successfully"
)

// InvalidReactionError reports an unsupported reaction type
func InvalidReactionError(raw string) *ServiceError {
	return NewValidationError(
		"Invalid reaction type. Valid types: like, love, laugh, wow, sad, angry", nil,
	).WithDetail("reaction_type", raw)
}

// CommentNotFoundError reports a missing or tombstoned comment
func CommentNotFoundError(commentID string) *ServiceError {
	return NewNotFoundError(MsgCommentNotFound).WithDetail("comment_id", commentID)
}
