package endpoint

import (
	"errors"
	"maps"
	"net/http"
	"slices"
)

// Output is the result of a matched Endpoint for one request. It is either a
// payload to be encoded with the endpoint's resolved encoder, or an error to
// be encoded with the Service's fixed error encoder. Both variants carry the
// same HTTP metadata.
//
// Output values are immutable: the With* methods return modified copies.
type Output[A any] struct {
	value   A
	err     ErrorMap
	isError bool

	status      int
	headers     map[string]string
	cookies     []*http.Cookie
	contentType *string
	charset     *string
}

// NewPayload returns a payload output with status 200.
func NewPayload[A any](v A) Output[A] {
	return Output[A]{value: v, status: http.StatusOK}
}

// NewError returns an error output with status 400.
func NewError[A any](err ErrorMap) Output[A] {
	return Output[A]{err: err, isError: true, status: http.StatusBadRequest}
}

// FromError converts a Go error into an error output. The status is taken
// from a StatusCoder in the chain, or 500. A *ProblemDetail in the chain is
// flattened with its ErrorMap method; any other error becomes a "message".
func FromError[A any](err error) Output[A] {
	status := ErrorStatus(err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		return NewError[A](pd.ErrorMap()).WithStatus(status)
	}
	return NewError[A](ErrorMap{"message": err.Error()}).WithStatus(status)
}

// Ok returns a 200 payload output.
func Ok[A any](v A) Output[A] { return NewPayload(v) }

// Created returns a 201 payload output.
func Created[A any](v A) Output[A] { return NewPayload(v).WithStatus(http.StatusCreated) }

// Accepted returns a 202 payload output.
func Accepted[A any](v A) Output[A] { return NewPayload(v).WithStatus(http.StatusAccepted) }

// NoContent returns a 204 output with no value.
func NoContent() Output[Void] { return NewPayload(Void{}).WithStatus(http.StatusNoContent) }

// BadRequest returns a 400 error output.
func BadRequest[A any](err ErrorMap) Output[A] { return NewError[A](err) }

// Unauthorized returns a 401 error output.
func Unauthorized[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusUnauthorized)
}

// Forbidden returns a 403 error output.
func Forbidden[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusForbidden)
}

// NotFound returns a 404 error output.
func NotFound[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusNotFound)
}

// Conflict returns a 409 error output.
func Conflict[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusConflict)
}

// Unprocessable returns a 422 error output.
func Unprocessable[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusUnprocessableEntity)
}

// InternalServerError returns a 500 error output.
func InternalServerError[A any](err ErrorMap) Output[A] {
	return NewError[A](err).WithStatus(http.StatusInternalServerError)
}

// IsPayload reports whether o is the payload variant.
func (o Output[A]) IsPayload() bool { return !o.isError }

// IsError reports whether o is the error variant.
func (o Output[A]) IsError() bool { return o.isError }

// Value returns the payload. It is the zero value for error outputs.
func (o Output[A]) Value() A { return o.value }

// Err returns the error body. It is nil for payload outputs.
func (o Output[A]) Err() ErrorMap { return o.err }

// Status returns the response status code.
func (o Output[A]) Status() int { return o.status }

// Headers returns a copy of the additive response headers.
func (o Output[A]) Headers() map[string]string { return maps.Clone(o.headers) }

// Cookies returns the cookies appended to the response, in order.
func (o Output[A]) Cookies() []*http.Cookie { return slices.Clone(o.cookies) }

// ContentType returns the content type override, if any.
func (o Output[A]) ContentType() (string, bool) {
	if o.contentType == nil {
		return "", false
	}
	return *o.contentType, true
}

// Charset returns the charset override, if any.
func (o Output[A]) Charset() (string, bool) {
	if o.charset == nil {
		return "", false
	}
	return *o.charset, true
}

// WithStatus returns a copy of o with the given status.
func (o Output[A]) WithStatus(code int) Output[A] {
	o.status = code
	return o
}

// WithHeader returns a copy of o with the header set. Later values for the
// same key win.
func (o Output[A]) WithHeader(key, value string) Output[A] {
	h := make(map[string]string, len(o.headers)+1)
	maps.Copy(h, o.headers)
	h[key] = value
	o.headers = h
	return o
}

// WithCookie returns a copy of o with the cookie appended.
func (o Output[A]) WithCookie(c *http.Cookie) Output[A] {
	o.cookies = append(slices.Clip(o.cookies), c)
	return o
}

// WithContentType returns a copy of o whose content type replaces the one
// supplied by the encoder.
func (o Output[A]) WithContentType(ct string) Output[A] {
	o.contentType = &ct
	return o
}

// WithCharset returns a copy of o whose charset replaces the one supplied by
// the encoder.
func (o Output[A]) WithCharset(cs string) Output[A] {
	o.charset = &cs
	return o
}

// Map transforms the payload of o with f. Metadata and the active variant
// are preserved; an error output passes through with only its type changed.
func Map[A, B any](o Output[A], f func(A) B) Output[B] {
	out := Output[B]{
		err:         o.err,
		isError:     o.isError,
		status:      o.status,
		headers:     o.headers,
		cookies:     o.cookies,
		contentType: o.contentType,
		charset:     o.charset,
	}
	if !o.isError {
		out.value = f(o.value)
	}
	return out
}
