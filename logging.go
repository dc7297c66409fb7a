package endpoint

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures what a Service wrote, for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter (supports http.ResponseController).
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logger returns middleware that writes one access log record per request.
// Server errors are logged at error level, client errors (including
// unmatched paths) at warn level. The record carries the content type the
// response was encoded with and, when RequestID runs, the request ID.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// RequestID placed inside Logger reports its ID through sink.
			sink := &requestIDSink{}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDSinkKey{}, sink)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("size", rec.size),
				slog.Duration("latency", time.Since(start)),
			}
			if ct := rec.Header().Get("Content-Type"); ct != "" {
				attrs = append(attrs, slog.String("content_type", ct))
			}
			if id := requestIDOf(r, sink, rec); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			logger.LogAttrs(r.Context(), levelFor(rec.status), "request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// requestIDOf looks for the request ID in the request context, then in
// sink, then in the default response header.
func requestIDOf(r *http.Request, sink *requestIDSink, w http.ResponseWriter) string {
	if id := RequestIDFrom(r.Context()); id != "" {
		return id
	}
	if sink.id != "" {
		return sink.id
	}
	return w.Header().Get(defaultRequestIDHeader)
}
