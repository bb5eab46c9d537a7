// file: internal/middleware/structured_logger.go
package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"socialfeed/internal/contextutils"

	"go.uber.org/zap"
)

// LoggingConfig holds configuration for structured logging middleware
type LoggingConfig struct {
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
	LogUserAgent         bool          `json:"log_user_agent"`
	SkipPaths            []string      `json:"skip_paths"`
}

// DefaultLoggingConfig returns production-ready logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SlowRequestThreshold: 1 * time.Second,
		LogUserAgent:         true,
		SkipPaths:            []string{"/health"},
	}
}

// StructuredLogging logs one line per completed request using the request-scoped logger
func StructuredLogging(logger *zap.Logger, config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skip[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := contextutils.GetRequestStart(r.Context())
			requestLogger := contextutils.GetLogger(r.Context(), logger)

			writer := &StructuredResponseWriter{ResponseWriter: w}
			next.ServeHTTP(writer, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.Int("status", writer.Status()),
				zap.Int64("bytes", writer.bytesWritten),
				zap.Duration("duration", duration),
			}
			if config.LogUserAgent {
				fields = append(fields, zap.String("user_agent", r.UserAgent()))
			}
			if userID := contextutils.GetUserID(r.Context()); userID != "" {
				fields = append(fields, zap.String("user_id", userID))
			}

			switch {
			case writer.Status() >= http.StatusInternalServerError:
				requestLogger.Error("Request failed", fields...)
			case duration > config.SlowRequestThreshold:
				requestLogger.Warn("Slow request", fields...)
			case writer.Status() >= http.StatusBadRequest:
				requestLogger.Info("Request rejected", fields...)
			default:
				requestLogger.Info("Request completed", fields...)
			}
		})
	}
}

// ===============================
// STRUCTURED RESPONSE WRITER
// ===============================

// StructuredResponseWriter captures response data for logging
type StructuredResponseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (w *StructuredResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *StructuredResponseWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	written, err := w.ResponseWriter.Write(data)
	w.bytesWritten += int64(written)
	return written, err
}

func (w *StructuredResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support hijacking")
}

func (w *StructuredResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Status returns the HTTP status code
func (w *StructuredResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
