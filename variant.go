package endpoint

import (
	"net/http"
	"reflect"
)

// Case turns one result type into a response. Cases are resolved once when
// a Service is built and then applied to every request.
type Case[A any] func(v A) (*Response, error)

// Encode returns a case that encodes values with enc into a minimal
// response: body plus Content-Type, with the status left for the Service to
// fill in.
func Encode[A any](enc Encoder[A]) Case[A] {
	ct := contentTypeHeader(enc.ContentType(), enc.Charset())
	return func(v A) (*Response, error) {
		body, err := enc.Encode(v)
		if err != nil {
			return nil, err
		}
		h := make(http.Header, 1)
		h.Set("Content-Type", ct)
		return &Response{Header: h, Body: body}, nil
	}
}

// Passthrough returns a case for values that already are responses.
func Passthrough() Case[*Response] {
	return func(r *Response) (*Response, error) {
		return r, nil
	}
}

// Or2 holds exactly one of two alternative result types.
type Or2[A, B any] struct {
	tag uint8
	a   A
	b   B
}

// Or2A returns an Or2 holding the first alternative.
func Or2A[A, B any](a A) Or2[A, B] { return Or2[A, B]{tag: 0, a: a} }

// Or2B returns an Or2 holding the second alternative.
func Or2B[A, B any](b B) Or2[A, B] { return Or2[A, B]{tag: 1, b: b} }

// Index returns the position of the active alternative, starting at 0.
func (o Or2[A, B]) Index() int { return int(o.tag) }

// First returns the first alternative if it is active.
func (o Or2[A, B]) First() (A, bool) { return o.a, o.tag == 0 }

// Second returns the second alternative if it is active.
func (o Or2[A, B]) Second() (B, bool) { return o.b, o.tag == 1 }

func (Or2[A, B]) resolveCase(r *Registry) (any, error) {
	ca, err := CaseFor[A](r)
	if err != nil {
		return nil, err
	}
	cb, err := CaseFor[B](r)
	if err != nil {
		return nil, err
	}
	return Match2(ca, cb)
}

// Or3 holds exactly one of three alternative result types.
type Or3[A, B, C any] struct {
	tag uint8
	a   A
	b   B
	c   C
}

// Or3A returns an Or3 holding the first alternative.
func Or3A[A, B, C any](a A) Or3[A, B, C] { return Or3[A, B, C]{tag: 0, a: a} }

// Or3B returns an Or3 holding the second alternative.
func Or3B[A, B, C any](b B) Or3[A, B, C] { return Or3[A, B, C]{tag: 1, b: b} }

// Or3C returns an Or3 holding the third alternative.
func Or3C[A, B, C any](c C) Or3[A, B, C] { return Or3[A, B, C]{tag: 2, c: c} }

// Index returns the position of the active alternative, starting at 0.
func (o Or3[A, B, C]) Index() int { return int(o.tag) }

// First returns the first alternative if it is active.
func (o Or3[A, B, C]) First() (A, bool) { return o.a, o.tag == 0 }

// Second returns the second alternative if it is active.
func (o Or3[A, B, C]) Second() (B, bool) { return o.b, o.tag == 1 }

// Third returns the third alternative if it is active.
func (o Or3[A, B, C]) Third() (C, bool) { return o.c, o.tag == 2 }

func (Or3[A, B, C]) resolveCase(r *Registry) (any, error) {
	ca, err := CaseFor[A](r)
	if err != nil {
		return nil, err
	}
	cb, err := CaseFor[B](r)
	if err != nil {
		return nil, err
	}
	cc, err := CaseFor[C](r)
	if err != nil {
		return nil, err
	}
	return Match3(ca, cb, cc)
}

// Match2 folds one case per alternative into a case for Or2.
func Match2[A, B any](ca Case[A], cb Case[B]) (Case[Or2[A, B]], error) {
	if ca == nil {
		return nil, noEncoder(reflect.TypeFor[A]().String())
	}
	if cb == nil {
		return nil, noEncoder(reflect.TypeFor[B]().String())
	}
	return func(v Or2[A, B]) (*Response, error) {
		if v.tag == 1 {
			return cb(v.b)
		}
		return ca(v.a)
	}, nil
}

// Match3 folds one case per alternative into a case for Or3.
func Match3[A, B, C any](ca Case[A], cb Case[B], cc Case[C]) (Case[Or3[A, B, C]], error) {
	if ca == nil {
		return nil, noEncoder(reflect.TypeFor[A]().String())
	}
	if cb == nil {
		return nil, noEncoder(reflect.TypeFor[B]().String())
	}
	if cc == nil {
		return nil, noEncoder(reflect.TypeFor[C]().String())
	}
	return func(v Or3[A, B, C]) (*Response, error) {
		switch v.tag {
		case 1:
			return cb(v.b)
		case 2:
			return cc(v.c)
		default:
			return ca(v.a)
		}
	}, nil
}

// alternatives is implemented by the closed alternative sets.
type alternatives interface {
	resolveCase(r *Registry) (any, error)
}

// CaseFor derives the case for A from its structure: a *Response passes
// through, an alternative set resolves each alternative recursively, and
// anything else must have an encoder in r.
func CaseFor[A any](r *Registry) (Case[A], error) {
	t := reflect.TypeFor[A]()
	if t == reflect.TypeFor[*Response]() {
		return any(Passthrough()).(Case[A]), nil //nolint:forcetypeassert // A is *Response
	}
	// Alternative sets are values; a pointer to one has no case.
	if t.Kind() == reflect.Pointer && t.Implements(reflect.TypeFor[alternatives]()) {
		return nil, noEncoder(t.String())
	}

	var zero A
	if alt, ok := any(zero).(alternatives); ok {
		c, err := alt.resolveCase(r)
		if err != nil {
			return nil, err
		}
		return c.(Case[A]), nil //nolint:forcetypeassert // resolveCase returns Case of its receiver type
	}

	enc, err := Lookup[A](r)
	if err != nil {
		return nil, err
	}
	return Encode(enc), nil
}
