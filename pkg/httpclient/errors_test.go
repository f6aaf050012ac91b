package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		message string
	}{
		{"data api not found", http.StatusNotFound, `{"message":"no rows","code":"PGRST116"}`, http.StatusNotFound, "no rows"},
		{"data api conflict", http.StatusConflict, `{"message":"duplicate key value","code":"23505"}`, http.StatusConflict, "duplicate key value"},
		{"auth invalid grant", http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, http.StatusBadRequest, "Invalid login credentials"},
		{"auth msg", http.StatusUnauthorized, `{"msg":"JWT expired"}`, http.StatusUnauthorized, "JWT expired"},
		{"storage forbidden", http.StatusForbidden, `{"message":"new row violates row-level security policy"}`, http.StatusForbidden, "row-level security"},
		{"throttled", http.StatusTooManyRequests, `rate limit`, http.StatusTooManyRequests, "rate limit"},
		{"plain text server error", http.StatusBadGateway, `upstream timeout`, http.StatusServiceUnavailable, "upstream timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(response(tt.status, tt.body), "gateway")
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.HTTPStatus(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseResponseError_UnmappedStatus(t *testing.T) {
	err := ParseResponseError(response(http.StatusRequestEntityTooLarge, `{"message":"too big"}`), "storage")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.Status)
}

func TestTransportError(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(TransportError(ErrCircuitOpen, "gateway")))
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(TransportError(errors.New("dial tcp"), "gateway")))

	err := TransportError(&serverError{status: 500, body: "db down"}, "gateway")
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "db down")
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusNoContent))
	assert.False(t, IsSuccess(http.StatusMultipleChoices))
	assert.False(t, IsSuccess(http.StatusBadRequest))
}
