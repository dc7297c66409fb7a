package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/bjaus/endpoint"
)

// result is everything the sample API can answer with.
type result = endpoint.Or3[string, user, *endpoint.Response]

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]user
}

func newUserStore() *userStore {
	return &userStore{users: map[string]user{
		"1": {ID: "1", Name: "Alice", Role: "admin"},
		"2": {ID: "2", Name: "Bob", Role: "viewer"},
	}}
}

func (s *userStore) get(id string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

var pong = &endpoint.Response{
	Status: http.StatusOK,
	Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
	Body:   []byte("pong"),
}

func routes(store *userStore) endpoint.Endpoint[result] {
	return endpoint.EndpointFunc[result](func(in endpoint.Input) (endpoint.Match[result], bool) {
		seg, ok := in.Head()
		if !ok {
			return endpoint.Match[result]{}, false
		}
		rest := in.Drop(1)

		switch seg {
		case "hello":
			return matched(rest, func(context.Context) (endpoint.Output[result], error) {
				return endpoint.Map(endpoint.Ok("hello"), endpoint.Or3A[string, user, *endpoint.Response]), nil
			}), true

		case "users":
			id, ok := rest.Head()
			if !ok {
				return endpoint.Match[result]{}, false
			}
			return matched(rest.Drop(1), func(context.Context) (endpoint.Output[result], error) {
				u, ok := store.get(id)
				if !ok {
					return endpoint.NotFound[result](endpoint.ErrorMap{"reason": "no such user"}), nil
				}
				out := endpoint.Map(endpoint.Ok(u), endpoint.Or3B[string, user, *endpoint.Response])
				return out.WithHeader("Cache-Control", "no-store"), nil
			}), true

		case "home":
			return matched(rest, func(context.Context) (endpoint.Output[result], error) {
				out := endpoint.Ok(endpoint.Or3C[string, user](endpoint.Redirect("/hello", http.StatusSeeOther)))
				return out.WithStatus(http.StatusSeeOther), nil
			}), true

		case "ping":
			return matched(rest, func(context.Context) (endpoint.Output[result], error) {
				return endpoint.Ok(endpoint.Or3C[string, user](pong)), nil
			}), true
		}

		return endpoint.Match[result]{}, false
	})
}

func matched(rest endpoint.Input, out endpoint.Deferred[result]) endpoint.Match[result] {
	return endpoint.Match[result]{Remainder: rest, Output: out}
}
