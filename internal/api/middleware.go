package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnwards/solarsail/internal/store"
)

type contextKey int

const (
	correlationIDKey contextKey = iota
	portalIDKey
)

// AdminPrefix is the path prefix of the sandbox control routes, which need no
// portal key.
const AdminPrefix = "/_sandbox/"

// CorrelationID returns the correlation ID from the request context.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// PortalID returns the portal the request authenticated as, or 0.
func PortalID(ctx context.Context) int64 {
	if id, ok := ctx.Value(portalIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithPortalID returns a context authenticated as portalID.
func WithPortalID(ctx context.Context, portalID int64) context.Context {
	return context.WithValue(ctx, portalIDKey, portalID)
}

// Recovery returns middleware that recovers from panics and returns a 500 error
// in HubSpot error format.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					WriteError(w, http.StatusInternalServerError,
						NewInternalError("Internal Server Error", CorrelationID(r.Context())))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID returns middleware that generates a UUID v4 correlation ID, stores
// it in the request context, and adds it to the response headers.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			ctx := context.WithValue(r.Context(), correlationIDKey, id)
			w.Header().Set("X-Correlation-Id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PortalAuth returns middleware that maps the hapikey query parameter to a
// portal id. Unknown or missing keys are rejected with 401. Admin routes pass
// through unauthenticated.
func PortalAuth(portals map[string]int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, AdminPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.Query().Get("hapikey")
			portalID, ok := portals[key]
			if key == "" || !ok {
				WriteError(w, http.StatusUnauthorized, NewAuthError(mask(key), CorrelationID(r.Context())))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPortalID(r.Context(), portalID)))
		})
	}
}

// mask hides all but the last four characters of a key.
func mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// JSONContentType returns middleware that sets the Content-Type header to
// application/json on all responses.
func JSONContentType() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code and,
// when body is set, a copy of the response body.
type statusWriter struct {
	http.ResponseWriter
	code int
	body *bytes.Buffer
}

// WriteHeader captures the status code and delegates to the wrapped writer.
func (sw *statusWriter) WriteHeader(code int) {
	sw.code = code
	sw.ResponseWriter.WriteHeader(code)
}

// Write copies b into the capture buffer and delegates to the wrapped writer.
func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.body != nil {
		sw.body.Write(b)
	}
	return sw.ResponseWriter.Write(b)
}

// Logging returns middleware that logs each request with slog.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.code,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// RequestLog returns middleware that records every content API request in
// the request log. It must run after PortalAuth so the portal is known.
// Admin routes are not recorded. The hapikey never reaches the log.
func RequestLog(log store.RequestLogStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, AdminPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			var reqBody []byte
			if r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				_ = r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK, body: &bytes.Buffer{}}
			next.ServeHTTP(sw, r)

			entry := &store.RequestLogEntry{
				Method:        r.Method,
				Path:          loggedPath(r),
				PortalID:      PortalID(r.Context()),
				StatusCode:    sw.code,
				RequestBody:   string(reqBody),
				ResponseBody:  sw.body.String(),
				DurationMs:    time.Since(start).Milliseconds(),
				CorrelationID: CorrelationID(r.Context()),
			}
			if err := log.Record(context.WithoutCancel(r.Context()), entry); err != nil {
				slog.Error("record request", "error", err, "path", r.URL.Path)
			}
		})
	}
}

func loggedPath(r *http.Request) string {
	q := r.URL.Query()
	q.Del("hapikey")
	if len(q) == 0 {
		return r.URL.Path
	}
	return r.URL.Path + "?" + q.Encode()
}

// Chain applies middleware in order so that the first middleware is the
// outermost handler.
func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
