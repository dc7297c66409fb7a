package endpoint

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"slices"
	"time"
)

// Service turns an Endpoint into an http.Handler. Everything it needs to
// encode results is resolved when it is built; serving a request touches no
// shared mutable state.
type Service struct {
	apply func(r *http.Request) *Response

	errorEncoder Encoder[ErrorMap]
	errorCase    Case[ErrorMap]
	headers      http.Header
	logger       *slog.Logger
	middleware   []Middleware
	etag         *ETagConfig
}

// Option configures a Service.
type Option func(*Service)

// WithErrorEncoder sets the encoder for Error outputs. Defaults to
// JSONErrors.
func WithErrorEncoder(enc Encoder[ErrorMap]) Option {
	return func(s *Service) {
		s.errorEncoder = enc
	}
}

// WithLogger sets the logger used for encoding and endpoint failures.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithHeader adds a default header to every matched response. Output
// headers with the same key replace it.
func WithHeader(key, value string) Option {
	return func(s *Service) {
		s.headers.Add(key, value)
	}
}

// WithMiddleware adds middleware applied by ServeHTTP, in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Service) {
		s.middleware = append(s.middleware, mw...)
	}
}

// New builds a Service from an endpoint and the case for its result type.
// It fails if either is missing.
func New[A any](e Endpoint[A], c Case[A], opts ...Option) (*Service, error) {
	if e == nil {
		return nil, ErrNilEndpoint
	}
	if c == nil {
		return nil, noEncoder(reflect.TypeFor[A]().String())
	}

	s := &Service{
		errorEncoder: JSONErrors(),
		headers:      make(http.Header),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorEncoder == nil {
		return nil, noEncoder(reflect.TypeFor[ErrorMap]().String())
	}
	s.errorCase = Encode(s.errorEncoder)

	s.apply = func(r *http.Request) *Response {
		m, ok := e.Evaluate(NewInput(r))
		if !ok || !m.Remainder.IsEmpty() || m.Output == nil {
			return notFound()
		}

		ctx := r.Context()
		out, err := m.Output(ctx)
		if err != nil {
			out = FromError[A](err)
			if out.Status() >= http.StatusInternalServerError {
				s.logger.ErrorContext(ctx, "endpoint failed", "err", err, "path", r.URL.Path)
			}
		}
		resp := respond(ctx, s, out, c)
		if s.etag != nil {
			resp = s.etag.apply(r, resp)
		}
		return resp
	}
	return s, nil
}

// Build resolves the case for A from r and builds a Service. A result type
// without an applicable encoder is reported here, before any request is
// served.
func Build[A any](e Endpoint[A], r *Registry, opts ...Option) (*Service, error) {
	c, err := CaseFor[A](r)
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	return New(e, c, opts...)
}

// MustBuild is like Build but panics on error.
func MustBuild[A any](e Endpoint[A], r *Registry, opts ...Option) *Service {
	s, err := Build(e, r, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Apply evaluates the endpoint against r and returns the response. Requests
// that do not match, or leave path segments unconsumed, get an empty 404.
func (s *Service) Apply(r *http.Request) *Response {
	return s.apply(r)
}

// Use adds middleware to the service. Middleware is applied in the order added.
func (s *Service) Use(mw ...Middleware) {
	s.middleware = append(s.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(http.HandlerFunc(s.serve))
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	handler.ServeHTTP(w, r)
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	if err := s.Apply(r).Write(w); err != nil {
		s.logger.DebugContext(r.Context(), "write response", "err", err)
	}
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// meta is the HTTP metadata of an Output, stripped of its type parameter.
type meta struct {
	status      int
	headers     map[string]string
	cookies     []*http.Cookie
	contentType *string
	charset     *string
}

func (o Output[A]) meta() meta {
	return meta{
		status:      o.status,
		headers:     o.headers,
		cookies:     o.cookies,
		contentType: o.contentType,
		charset:     o.charset,
	}
}

func respond[A any](ctx context.Context, s *Service, out Output[A], c Case[A]) *Response {
	var (
		resp *Response
		err  error
	)
	if out.IsError() {
		resp, err = s.errorCase(out.Err())
	} else {
		resp, err = c(out.Value())
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "encode response", "err", err, "error_output", out.IsError())
		return s.encodeFailure(ctx)
	}
	if resp == nil {
		resp = &Response{}
	}
	return s.shape(resp, out.meta())
}

// shape layers service defaults and output metadata over an encoded
// response. The status is always the output's; a passed-through response
// contributes only its headers, cookies and body. The encoded response is
// not modified, since a passed-through response may be shared between
// requests.
func (s *Service) shape(resp *Response, m meta) *Response {
	out := &Response{
		Status:  resp.Status,
		Header:  make(http.Header, len(s.headers)+len(resp.Header)+len(m.headers)),
		Cookies: slices.Clone(resp.Cookies),
		Body:    resp.Body,
	}
	for k, vs := range s.headers {
		out.Header[k] = slices.Clone(vs)
	}
	for k, vs := range resp.Header {
		out.Header[k] = slices.Clone(vs)
	}
	for k, v := range m.headers {
		out.Header.Set(k, v)
	}

	if m.contentType != nil || m.charset != nil {
		ct, cs := splitContentType(out.Header.Get("Content-Type"))
		if m.contentType != nil {
			ct = *m.contentType
		}
		if m.charset != nil {
			cs = *m.charset
		}
		if ct != "" {
			out.Header.Set("Content-Type", contentTypeHeader(ct, cs))
		}
	}

	out.Status = m.status
	out.Cookies = append(out.Cookies, m.cookies...)
	return out
}

func (s *Service) encodeFailure(ctx context.Context) *Response {
	status := http.StatusInternalServerError
	resp, err := s.errorCase(ErrorMap{"message": http.StatusText(status)})
	if err != nil {
		s.logger.ErrorContext(ctx, "encode error response", "err", err)
		return &Response{Status: status, Header: make(http.Header)}
	}
	return s.shape(resp, meta{status: status})
}

// splitContentType separates a Content-Type value into its media type and
// charset parameter.
func splitContentType(v string) (string, string) {
	if v == "" {
		return "", ""
	}
	mt, params, err := mime.ParseMediaType(v)
	if err != nil {
		return v, ""
	}
	return mt, params["charset"]
}
