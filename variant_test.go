package endpoint_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/endpoint"
	"github.com/bjaus/endpoint/apitest"
)

func TestEncodeCase(t *testing.T) {
	t.Parallel()

	c := endpoint.Encode(endpoint.Text())
	resp, err := c("hello")
	require.NoError(t, err)

	assert.Zero(t, resp.Status)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("hello"), resp.Body)
}

func TestEncodeCase_no_charset(t *testing.T) {
	t.Parallel()

	resp, err := endpoint.Encode(endpoint.Bytes())([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	in := &endpoint.Response{Status: http.StatusAccepted, Body: []byte("as is")}
	out, err := endpoint.Passthrough()(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestOr2(t *testing.T) {
	t.Parallel()

	a := endpoint.Or2A[string, int]("x")
	assert.Equal(t, 0, a.Index())
	s, ok := a.First()
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = a.Second()
	assert.False(t, ok)

	b := endpoint.Or2B[string](7)
	assert.Equal(t, 1, b.Index())
	n, ok := b.Second()
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = b.First()
	assert.False(t, ok)
}

func TestOr3(t *testing.T) {
	t.Parallel()

	c := endpoint.Or3C[string, int](true)
	assert.Equal(t, 2, c.Index())
	v, ok := c.Third()
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = c.First()
	assert.False(t, ok)
	_, ok = c.Second()
	assert.False(t, ok)
}

func TestMatch2_routes_each_alternative_to_its_case(t *testing.T) {
	t.Parallel()

	prebuilt := &endpoint.Response{Status: http.StatusTeapot, Body: []byte("tea")}

	c, err := endpoint.Match2(endpoint.Passthrough(), endpoint.Encode(endpoint.Text()))
	require.NoError(t, err)

	resp, err := c(endpoint.Or2A[*endpoint.Response, string](prebuilt))
	require.NoError(t, err)
	assert.Same(t, prebuilt, resp)

	resp, err = c(endpoint.Or2B[*endpoint.Response]("hello"))
	require.NoError(t, err)
	assert.Zero(t, resp.Status)
	assert.Equal(t, []byte("hello"), resp.Body)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestMatch3(t *testing.T) {
	t.Parallel()

	c, err := endpoint.Match3(
		endpoint.Encode(endpoint.Text()),
		endpoint.Encode(endpoint.Bytes()),
		endpoint.Encode(endpoint.Empty()),
	)
	require.NoError(t, err)

	tests := map[string]struct {
		in          endpoint.Or3[string, []byte, endpoint.Void]
		contentType string
		body        string
	}{
		"first":  {in: endpoint.Or3A[string, []byte, endpoint.Void]("s"), contentType: "text/plain; charset=utf-8", body: "s"},
		"second": {in: endpoint.Or3B[string, []byte, endpoint.Void]([]byte("b")), contentType: "application/octet-stream", body: "b"},
		"third":  {in: endpoint.Or3C[string, []byte](endpoint.Void{}), contentType: "application/json; charset=utf-8", body: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp, err := c(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			assert.Equal(t, tc.body, string(resp.Body))
		})
	}
}

func TestMatch_nil_case(t *testing.T) {
	t.Parallel()

	_, err := endpoint.Match2[string, int](endpoint.Encode(endpoint.Text()), nil)
	require.ErrorIs(t, err, endpoint.ErrNoEncoder)

	_, err = endpoint.Match3[string, int, bool](endpoint.Encode(endpoint.Text()), nil, nil)
	require.ErrorIs(t, err, endpoint.ErrNoEncoder)
}

func TestCaseFor(t *testing.T) {
	t.Parallel()

	t.Run("response passes through", func(t *testing.T) {
		t.Parallel()

		c, err := endpoint.CaseFor[*endpoint.Response](endpoint.NewRegistry())
		require.NoError(t, err)

		in := &endpoint.Response{Status: http.StatusCreated}
		out, err := c(in)
		require.NoError(t, err)
		assert.Same(t, in, out)
	})

	t.Run("registered type is encoded", func(t *testing.T) {
		t.Parallel()

		c, err := endpoint.CaseFor[string](endpoint.NewRegistry())
		require.NoError(t, err)

		resp, err := c("hi")
		require.NoError(t, err)
		assert.Equal(t, "hi", string(resp.Body))
	})

	t.Run("alternative set resolves per alternative", func(t *testing.T) {
		t.Parallel()

		reg := endpoint.NewRegistry(endpoint.WithFallback(endpoint.JSON()))
		c, err := endpoint.CaseFor[endpoint.Or3[*endpoint.Response, string, widget]](reg)
		require.NoError(t, err)

		prebuilt := &endpoint.Response{Status: http.StatusAccepted}
		resp, err := c(endpoint.Or3A[*endpoint.Response, string, widget](prebuilt))
		require.NoError(t, err)
		assert.Same(t, prebuilt, resp)

		resp, err = c(endpoint.Or3B[*endpoint.Response, string, widget]("plain"))
		require.NoError(t, err)
		assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

		resp, err = c(endpoint.Or3C[*endpoint.Response, string](widget{Name: "gear"}))
		require.NoError(t, err)
		assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"name":"gear"}`, string(resp.Body))
	})

	t.Run("nested alternative sets", func(t *testing.T) {
		t.Parallel()

		type nested = endpoint.Or2[string, endpoint.Or2[[]byte, endpoint.Void]]

		c, err := endpoint.CaseFor[nested](endpoint.NewRegistry())
		require.NoError(t, err)

		resp, err := c(endpoint.Or2B[string](endpoint.Or2A[[]byte, endpoint.Void]([]byte("raw"))))
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	})

	t.Run("missing alternative fails", func(t *testing.T) {
		t.Parallel()

		_, err := endpoint.CaseFor[endpoint.Or2[string, widget]](endpoint.NewRegistry())
		require.ErrorIs(t, err, endpoint.ErrNoEncoder)
		assert.Contains(t, err.Error(), "widget")
	})

	t.Run("pointer to alternative set fails", func(t *testing.T) {
		t.Parallel()

		regs := map[string]*endpoint.Registry{
			"default":       endpoint.NewRegistry(),
			"json fallback": endpoint.NewRegistry(endpoint.WithFallback(endpoint.JSON())),
		}
		for name, reg := range regs {
			_, err := endpoint.CaseFor[*endpoint.Or2[string, int]](reg)
			require.ErrorIs(t, err, endpoint.ErrNoEncoder, name)

			_, err = endpoint.Build(apitest.Path(endpoint.Ok(&endpoint.Or2[string, int]{})), reg)
			require.ErrorIs(t, err, endpoint.ErrNoEncoder, name)
		}
	})
}
