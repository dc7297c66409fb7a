// Package apitest provides test helpers for endpoint services.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bjaus/endpoint"
)

// Client wraps an httptest.Server for convenient service testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client serving h.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a received response with its body read.
type Response struct {
	Status  int
	Headers http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// Get sends a GET request.
func (c *Client) Get(t testing.TB, path string) *Response {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil)
}

// Do sends a request with an optional body.
func (c *Client) Do(t testing.TB, method, path string, body io.Reader) *Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, body)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Cookies: resp.Cookies(),
		Body:    b,
	}
}

// DecodeJSON decodes the body of r as JSON into a T.
func DecodeJSON[T any](t testing.TB, r *Response) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.Body, &v); err != nil {
		t.Fatalf("apitest: decode body: %v", err)
	}
	return v
}

// Path returns an endpoint that matches requests whose path starts with the
// given segments and yields out. The remaining segments are left as the
// match remainder.
func Path[A any](out endpoint.Output[A], segments ...string) endpoint.Endpoint[A] {
	return Lazy(func(context.Context) (endpoint.Output[A], error) { return out, nil }, segments...)
}

// Lazy is like Path but computes the output with fn.
func Lazy[A any](fn endpoint.Deferred[A], segments ...string) endpoint.Endpoint[A] {
	return endpoint.EndpointFunc[A](func(in endpoint.Input) (endpoint.Match[A], bool) {
		for _, want := range segments {
			got, ok := in.Head()
			if !ok || got != want {
				return endpoint.Match[A]{}, false
			}
			in = in.Drop(1)
		}
		return endpoint.Match[A]{Remainder: in, Output: fn}, true
	})
}
