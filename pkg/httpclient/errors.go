package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
)

// remoteError is the error body shape written by this service and by
// webhook receivers that follow the same convention.
type remoteError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// turns it into an error. Client errors keep their semantics as AppErrors.
func ParseResponseError(resp *http.Response, target string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", target, resp.StatusCode, err)
	}

	msg := string(body)
	var remote remoteError
	if json.Unmarshal(body, &remote) == nil && remote.Message != "" {
		msg = remote.Message
	}
	qualified := fmt.Sprintf("%s: %s", target, msg)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(target, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case http.StatusConflict:
		return apperrors.Conflict(qualified)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	}
	return fmt.Errorf("%s returned status %d: %s", target, resp.StatusCode, msg)
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
