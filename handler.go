package endpoint

import (
	"context"
	"net/http"
	"slices"
	"strings"
)

// Void is the result type of endpoints whose response has no body.
type Void struct{}

// Input is a request together with the path segments not yet consumed by
// an endpoint.
type Input struct {
	req  *http.Request
	path []string
}

// NewInput creates an Input positioned at the start of r's path.
func NewInput(r *http.Request) Input {
	var segs []string
	for s := range strings.SplitSeq(r.URL.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return Input{req: r, path: segs}
}

// Request returns the underlying request.
func (in Input) Request() *http.Request { return in.req }

// Segments returns the unconsumed path segments.
func (in Input) Segments() []string { return slices.Clone(in.path) }

// Head returns the next unconsumed segment.
func (in Input) Head() (string, bool) {
	if len(in.path) == 0 {
		return "", false
	}
	return in.path[0], true
}

// Drop returns an Input with the first n segments consumed.
func (in Input) Drop(n int) Input {
	in.path = in.path[min(n, len(in.path)):]
	return in
}

// IsEmpty reports whether every path segment has been consumed.
func (in Input) IsEmpty() bool { return len(in.path) == 0 }

// Deferred computes an endpoint's Output. It is invoked at most once, and
// only after the Service has confirmed the whole path was consumed.
type Deferred[A any] func(ctx context.Context) (Output[A], error)

// Match is a successful endpoint evaluation.
type Match[A any] struct {
	Remainder Input
	Output    Deferred[A]
}

// Endpoint matches requests and produces typed outputs. Evaluate reports
// false when the input does not match.
type Endpoint[A any] interface {
	Evaluate(in Input) (Match[A], bool)
}

// EndpointFunc adapts a function to the Endpoint interface.
type EndpointFunc[A any] func(in Input) (Match[A], bool)

// Evaluate calls f(in).
func (f EndpointFunc[A]) Evaluate(in Input) (Match[A], bool) { return f(in) }
