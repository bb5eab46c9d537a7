package response

import (
	"context"
	"encoding/json"
	"net/http"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/services"

	"go.uber.org/zap"
)

// internalErrorMessage replaces the message of every masked 5xx error
const internalErrorMessage = "Internal server error"

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON         bool `json:"pretty_json"`
	IncludeRequestID   bool `json:"include_request_id"`
	MaskInternalErrors bool `json:"mask_internal_errors"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail    string       `json:"detail"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes JSON success and error responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Error creates an error body from any error
func (b *Builder) Error(ctx context.Context, err error) *ErrorResponse {
	detail := b.convertError(err)
	b.logError(ctx, err, detail)

	return &ErrorResponse{
		Detail:    detail.Message,
		Error:     detail,
		RequestID: b.getRequestID(ctx),
	}
}

// ===============================
// HTTP RESPONSE WRITERS
// ===============================

// WriteJSON writes data as JSON with the given status code
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if statusCode >= 400 {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(data); err != nil {
		b.logger.Error("Failed to encode JSON response",
			zap.Error(err),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
		)
	}
}

// WriteSuccess writes a 200 response
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, data, http.StatusOK)
}

// WriteCreated writes a 201 response
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, data, http.StatusCreated)
}

// WriteError writes an error response with appropriate status code
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	b.WriteJSON(w, r, b.Error(r.Context(), err), b.getStatusCodeFromError(err))
}

// ===============================
// UTILITY METHODS
// ===============================

// convertError converts errors to ErrorDetail, masking internal failures
func (b *Builder) convertError(err error) *ErrorDetail {
	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		detail := &ErrorDetail{
			Type:    serviceErr.Type,
			Message: serviceErr.Message,
			Code:    serviceErr.Code,
			Details: serviceErr.Details,
		}
		if b.config.MaskInternalErrors && serviceErr.GetStatusCode() >= http.StatusInternalServerError {
			detail.Message = internalErrorMessage
			detail.Details = nil
		}
		return detail
	}

	message := internalErrorMessage
	if !b.config.MaskInternalErrors && err != nil {
		message = err.Error()
	}
	return &ErrorDetail{
		Type:    services.ErrorTypeInternal,
		Message: message,
	}
}

// getStatusCodeFromError determines HTTP status code from error
func (b *Builder) getStatusCodeFromError(err error) int {
	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		return serviceErr.GetStatusCode()
	}
	return http.StatusInternalServerError
}

// getRequestID extracts request ID from context
func (b *Builder) getRequestID(ctx context.Context) string {
	if !b.config.IncludeRequestID {
		return ""
	}
	return contextutils.GetRequestID(ctx)
}

// logError logs client errors at Warn and internal ones at Error
func (b *Builder) logError(ctx context.Context, err error, detail *ErrorDetail) {
	logger := contextutils.GetLogger(ctx, b.logger)

	if detail.Type == services.ErrorTypeInternal {
		logger.Error("Internal error",
			zap.String("error_type", detail.Type),
			zap.Error(err),
		)
		return
	}
	logger.Warn("Request error",
		zap.String("error_type", detail.Type),
		zap.String("error_message", detail.Message),
		zap.String("error_code", detail.Code),
	)
}

// ===============================
// CONTEXT HELPERS
// ===============================

type contextKey string

const builderKey contextKey = "response_builder"

// GetBuilder extracts response builder from context
func GetBuilder(ctx context.Context) *Builder {
	if builder, ok := ctx.Value(builderKey).(*Builder); ok {
		return builder
	}
	return nil
}

// SetBuilder stores response builder in context
func SetBuilder(ctx context.Context, builder *Builder) context.Context {
	return context.WithValue(ctx, builderKey, builder)
}

// QuickError writes err with the builder from the request context
func QuickError(w http.ResponseWriter, r *http.Request, err error) {
	builder := GetBuilder(r.Context())
	if builder == nil {
		builder = NewBuilder(DefaultConfig(), zap.NewNop())
	}
	builder.WriteError(w, r, err)
}

// ===============================
// RESPONSE MIDDLEWARE
// ===============================

// Middleware stores the builder in every request context
func Middleware(builder *Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetBuilder(r.Context(), builder)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
