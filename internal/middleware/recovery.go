// File: internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/response"
	"socialfeed/internal/services"
	"socialfeed/internal/utils/appinfo"

	"go.uber.org/zap"
)

// RecoveryConfig holds configuration for panic recovery middleware
type RecoveryConfig struct {
	EnableStackTrace bool `json:"enable_stack_trace"`
	MaxStackFrames   int  `json:"max_stack_frames"`
}

// DefaultRecoveryConfig returns production-ready recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		EnableStackTrace: true,
		MaxStackFrames:   20,
	}
}

// Recovery turns handler panics into masked 500 responses
func Recovery(config *RecoveryConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultRecoveryConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := []zap.Field{
					zap.String("event", "panic_recovered"),
					zap.Any("panic_error", rec),
					zap.String("panic_type", fmt.Sprintf("%T", rec)),
					zap.String("environment", appinfo.GetEnvironment()),
					zap.Int("goroutines", runtime.NumGoroutine()),
				}
				if config.EnableStackTrace {
					fields = append(fields, zap.Strings("stack", captureStack(config.MaxStackFrames)))
				}
				contextutils.GetLogger(r.Context(), logger).Error("Panic recovered", fields...)

				err := services.NewInternalError("panic recovered", fmt.Errorf("panic: %v", rec))
				if rb := response.GetBuilder(r.Context()); rb != nil {
					rb.WriteError(w, r, err)
					return
				}
				writeFallbackPanicResponse(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// captureStack returns up to maxFrames "function file:line" entries above the panic
func captureStack(maxFrames int) []string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(4, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			stack = append(stack, fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return stack
}

// writeFallbackPanicResponse is used when no response builder is in the context
func writeFallbackPanicResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, `{"detail":"Internal server error","error":{"type":%q,"message":"Internal server error"},"request_id":%q}`,
		services.ErrorTypeInternal, contextutils.GetRequestID(r.Context()))
}
