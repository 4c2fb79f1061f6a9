package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
)

// PanicHandler writes the response for a request whose handler panicked
type PanicHandler func(w http.ResponseWriter, r *http.Request, err error)

// Recovery turns handler panics into an error response written by onPanic.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
// Nothing is written when the handler already started its response,
// which is the usual case for a panic inside an SSE or websocket stream.
func Recovery(logger *slog.Logger, onPanic PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err := panicError(v)
				attrs := []any{
					slog.String("error", err.Error()),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				}
				if route := mux.CurrentRoute(r); route != nil {
					if tmpl, tmplErr := route.GetPathTemplate(); tmplErr == nil {
						attrs = append(attrs, slog.String("route", tmpl))
					}
				}
				// Logging runs inside Recovery, so the id is only on the response
				if reqID := tracked.Header().Get(RequestIDHeader); reqID != "" {
					attrs = append(attrs, slog.String("request_id", reqID))
				}
				if id := mux.Vars(r)["id"]; id != "" {
					attrs = append(attrs, slog.String("id", id))
				}
				logger.Error("panic recovered", attrs...)

				if tracked.Started() {
					return
				}
				onPanic(tracked, r, err)
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}

// ErrPanic wraps every value recovered by Recovery
var ErrPanic = errors.New("handler panicked")

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrPanic, v)
}
