package endpoint

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// CompressConfig configures the Compress middleware.
type CompressConfig struct {
	Level   int      // gzip level (1-9, default: 5)
	MinSize int      // minimum response size to compress (default: 1024)
	Types   []string // content types to compress (default: application/json, application/xml, application/yaml, text/)
}

// Compress returns middleware that gzip-compresses encoded response bodies.
// The decision is made from the Content-Type and Content-Length set by the
// Service, before the status line is written.
func Compress(cfg ...CompressConfig) Middleware {
	c := CompressConfig{
		Level:   5,
		MinSize: 1024,
		Types:   []string{"application/json", "application/xml", "application/yaml", "text/"},
	}
	if len(cfg) > 0 {
		if cfg[0].Level > 0 {
			c.Level = cfg[0].Level
		}
		if cfg[0].MinSize > 0 {
			c.MinSize = cfg[0].MinSize
		}
		if len(cfg[0].Types) > 0 {
			c.Types = cfg[0].Types
		}
	}

	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, c.Level) //nolint:errcheck // level is pre-validated
			return gz
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gz := pool.Get().(*gzip.Writer) //nolint:errcheck,forcetypeassert // pool.New always returns *gzip.Writer
			gz.Reset(w)

			gw := &gzipResponseWriter{
				ResponseWriter: w,
				writer:         gz,
				minSize:        c.MinSize,
				types:          c.Types,
			}

			w.Header().Set("Vary", "Accept-Encoding")
			next.ServeHTTP(gw, r)

			if gw.gzipActive {
				//nolint:errcheck,gosec // best-effort flush
				gz.Close()
			}
			gz.Reset(io.Discard)
			pool.Put(gz)
		})
	}
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer     *gzip.Writer
	minSize    int
	types      []string
	gzipActive bool
	headerSent bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	size := -1
	if n, err := strconv.Atoi(g.Header().Get("Content-Length")); err == nil {
		size = n
	}
	g.writeHeader(code, size)
}

func (g *gzipResponseWriter) writeHeader(code, size int) {
	if g.headerSent {
		return
	}
	g.headerSent = true

	bodyless := code == http.StatusNoContent || code == http.StatusNotModified
	if !bodyless && size >= g.minSize && g.shouldCompress(g.Header().Get("Content-Type")) {
		g.gzipActive = true
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Del("Content-Length")
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.headerSent {
		g.writeHeader(http.StatusOK, len(b))
	}
	if g.gzipActive {
		return g.writer.Write(b)
	}
	return g.ResponseWriter.Write(b)
}

func (g *gzipResponseWriter) shouldCompress(contentType string) bool {
	if g.Header().Get("Content-Encoding") != "" {
		return false
	}
	for _, t := range g.types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func (g *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}
