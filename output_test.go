package endpoint_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/endpoint"
)

func TestOutput_default_status(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		out     endpoint.Output[string]
		status  int
		isError bool
	}{
		"payload":               {out: endpoint.NewPayload("x"), status: http.StatusOK},
		"ok":                    {out: endpoint.Ok("x"), status: http.StatusOK},
		"created":               {out: endpoint.Created("x"), status: http.StatusCreated},
		"accepted":              {out: endpoint.Accepted("x"), status: http.StatusAccepted},
		"error":                 {out: endpoint.NewError[string](nil), status: http.StatusBadRequest, isError: true},
		"bad request":           {out: endpoint.BadRequest[string](nil), status: http.StatusBadRequest, isError: true},
		"unauthorized":          {out: endpoint.Unauthorized[string](nil), status: http.StatusUnauthorized, isError: true},
		"forbidden":             {out: endpoint.Forbidden[string](nil), status: http.StatusForbidden, isError: true},
		"not found":             {out: endpoint.NotFound[string](nil), status: http.StatusNotFound, isError: true},
		"conflict":              {out: endpoint.Conflict[string](nil), status: http.StatusConflict, isError: true},
		"unprocessable":         {out: endpoint.Unprocessable[string](nil), status: http.StatusUnprocessableEntity, isError: true},
		"internal server error": {out: endpoint.InternalServerError[string](nil), status: http.StatusInternalServerError, isError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.status, tc.out.Status())
			assert.Equal(t, tc.isError, tc.out.IsError())
			assert.Equal(t, !tc.isError, tc.out.IsPayload())
		})
	}
}

func TestOutput_no_content(t *testing.T) {
	t.Parallel()

	out := endpoint.NoContent()
	assert.Equal(t, http.StatusNoContent, out.Status())
	assert.True(t, out.IsPayload())
	assert.Equal(t, endpoint.Void{}, out.Value())
}

func TestOutput_from_error(t *testing.T) {
	t.Parallel()

	out := endpoint.FromError[string](endpoint.Error(http.StatusConflict, "taken"))
	assert.True(t, out.IsError())
	assert.Equal(t, http.StatusConflict, out.Status())
	assert.Equal(t, endpoint.ErrorMap{"message": "taken"}, out.Err())
}

func TestOutput_metadata(t *testing.T) {
	t.Parallel()

	c1 := &http.Cookie{Name: "a", Value: "1"}
	c2 := &http.Cookie{Name: "b", Value: "2"}

	out := endpoint.Ok("x").
		WithHeader("X-One", "1").
		WithHeader("X-One", "2").
		WithHeader("X-Two", "2").
		WithCookie(c1).
		WithCookie(c2).
		WithContentType("text/html").
		WithCharset("iso-8859-1")

	assert.Equal(t, map[string]string{"X-One": "2", "X-Two": "2"}, out.Headers())
	assert.Equal(t, []*http.Cookie{c1, c2}, out.Cookies())

	ct, ok := out.ContentType()
	require.True(t, ok)
	assert.Equal(t, "text/html", ct)

	cs, ok := out.Charset()
	require.True(t, ok)
	assert.Equal(t, "iso-8859-1", cs)
}

func TestOutput_is_immutable(t *testing.T) {
	t.Parallel()

	base := endpoint.Ok("x").WithHeader("X-Base", "1").WithCookie(&http.Cookie{Name: "a"})
	derived := base.WithHeader("X-Derived", "1").WithCookie(&http.Cookie{Name: "b"}).WithStatus(http.StatusTeapot)

	assert.Equal(t, map[string]string{"X-Base": "1"}, base.Headers())
	assert.Len(t, base.Cookies(), 1)
	assert.Equal(t, http.StatusOK, base.Status())

	assert.Len(t, derived.Headers(), 2)
	assert.Len(t, derived.Cookies(), 2)
	assert.Equal(t, http.StatusTeapot, derived.Status())

	_, ok := base.ContentType()
	assert.False(t, ok)
	_, ok = base.Charset()
	assert.False(t, ok)
}

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("payload value is transformed and metadata kept", func(t *testing.T) {
		t.Parallel()

		out := endpoint.Created(21).
			WithHeader("X-Trace", "abc").
			WithCookie(&http.Cookie{Name: "s", Value: "v"}).
			WithContentType("text/csv")

		mapped := endpoint.Map(out, func(n int) string { return strconv.Itoa(n * 2) })

		assert.True(t, mapped.IsPayload())
		assert.Equal(t, "42", mapped.Value())
		assert.Equal(t, http.StatusCreated, mapped.Status())
		assert.Equal(t, out.Headers(), mapped.Headers())
		assert.Equal(t, out.Cookies(), mapped.Cookies())
		ct, ok := mapped.ContentType()
		require.True(t, ok)
		assert.Equal(t, "text/csv", ct)
	})

	t.Run("error passes through", func(t *testing.T) {
		t.Parallel()

		out := endpoint.Forbidden[int](endpoint.ErrorMap{"reason": "no"}).WithHeader("X-Why", "policy")

		called := false
		mapped := endpoint.Map(out, func(n int) string {
			called = true
			return ""
		})

		assert.False(t, called)
		assert.True(t, mapped.IsError())
		assert.Equal(t, endpoint.ErrorMap{"reason": "no"}, mapped.Err())
		assert.Equal(t, http.StatusForbidden, mapped.Status())
		assert.Equal(t, map[string]string{"X-Why": "policy"}, mapped.Headers())
	})
}

func TestOutput_from_problem_detail(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err    error
		status int
		body   endpoint.ErrorMap
	}{
		"problem detail": {
			err:    &endpoint.ProblemDetail{Status: http.StatusConflict, Detail: "name taken"},
			status: http.StatusConflict,
			body:   endpoint.ErrorMap{"status": "409", "detail": "name taken"},
		},
		"problem detail without status": {
			err:    &endpoint.ProblemDetail{Detail: "unknown"},
			status: http.StatusInternalServerError,
			body:   endpoint.ErrorMap{"detail": "unknown"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := endpoint.FromError[string](tc.err)
			assert.True(t, out.IsError())
			assert.Equal(t, tc.status, out.Status())
			assert.Equal(t, tc.body, out.Err())
		})
	}
}
