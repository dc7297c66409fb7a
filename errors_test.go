package endpoint_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/endpoint"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := endpoint.Error(http.StatusNotFound, "not found")
	assert.EqualError(t, err, "not found")

	var sc endpoint.StatusCoder
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := endpoint.Errorf(http.StatusBadRequest, "invalid %s", "email")
	assert.EqualError(t, err, "invalid email")
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err    error
		expect int
	}{
		"with StatusCoder": {
			err:    endpoint.Error(http.StatusForbidden, "forbidden"),
			expect: http.StatusForbidden,
		},
		"wrapped StatusCoder": {
			err:    fmt.Errorf("load: %w", endpoint.Error(http.StatusGone, "gone")),
			expect: http.StatusGone,
		},
		"without StatusCoder": {
			err:    errors.New("plain error"),
			expect: http.StatusInternalServerError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, endpoint.ErrorStatus(tc.err))
		})
	}
}

func TestHTTPError_fields(t *testing.T) {
	t.Parallel()

	err := endpoint.Error(http.StatusConflict, "conflict")

	var apiErr *endpoint.HTTPError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "conflict", apiErr.Message)
}

func TestProblemDetail(t *testing.T) {
	t.Parallel()

	pd := &endpoint.ProblemDetail{
		Title:  "Unprocessable Entity",
		Status: http.StatusUnprocessableEntity,
		Detail: "validation failed",
		Errors: []endpoint.ValidationError{{Field: "email", Message: "required"}},
	}

	assert.EqualError(t, pd, "validation failed")
	assert.Equal(t, http.StatusUnprocessableEntity, endpoint.ErrorStatus(fmt.Errorf("create: %w", pd)))
	assert.Equal(t, endpoint.ErrorMap{
		"title":  "Unprocessable Entity",
		"status": "422",
		"detail": "validation failed",
		"email":  "required",
	}, pd.ErrorMap())
}

func TestProblemDetail_error_falls_back_to_title(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, &endpoint.ProblemDetail{Title: "Gone"}, "Gone")
}
