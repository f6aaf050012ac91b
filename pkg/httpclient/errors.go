package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

// gatewayErrorBody covers the error shapes returned by the backend gateway:
// the data API uses message/code/details, the auth API uses
// error/error_description or msg.
type gatewayErrorBody struct {
	Message          string `json:"message"`
	Code             string `json:"code"`
	Details          string `json:"details"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b gatewayErrorBody) text() string {
	for _, s := range []string{b.Message, b.ErrorDescription, b.Msg, b.Error, b.Details} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ParseResponseError reads a non-2xx response and translates it into an
// AppError. The body is consumed and closed.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	message := string(body)
	var parsed gatewayErrorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.text() != "" {
		message = parsed.text()
	}
	return mapStatus(resp.StatusCode, message, upstream)
}

func mapStatus(status int, message, upstream string) error {
	qualified := fmt.Sprintf("%s: %s", upstream, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(upstream, message)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(qualified)
	case status >= 500:
		return apperrors.Unavailable(qualified, fmt.Errorf("%s returned %d", upstream, status))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}

// TransportError converts an error from Do into an AppError: breaker
// rejections and 5xx responses become 503, anything else is wrapped as-is.
func TransportError(err error, upstream string) error {
	var se *serverError
	switch {
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.Unavailable(upstream+" temporarily unavailable", err)
	case errors.As(err, &se):
		return mapStatus(se.status, se.body, upstream)
	default:
		return apperrors.Unavailable(upstream+" unreachable", err)
	}
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
