package endpoint

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware is the standard middleware signature compatible with the entire
// Go middleware ecosystem.
type Middleware func(next http.Handler) http.Handler

// Recovery returns middleware that recovers from panics and responds with a
// 500 error body encoded by enc. A nil enc uses JSONErrors.
func Recovery(enc ...Encoder[ErrorMap]) Middleware {
	errorCase := Encode(JSONErrors())
	if len(enc) > 0 && enc[0] != nil {
		errorCase = Encode(enc[0])
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"panic", rec,
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)
					writeStatus(w, errorCase, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// writeStatus writes an error body carrying the status text of code.
func writeStatus(w http.ResponseWriter, errorCase Case[ErrorMap], code int) {
	resp, err := errorCase(ErrorMap{"message": http.StatusText(code)})
	if err != nil {
		resp = &Response{}
	}
	resp.Status = code
	//nolint:errcheck,gosec // best-effort after a failure
	resp.Write(w)
}
