// internal/backend/errors.go
package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the POS backend. Detail carries the
// backend-provided message verbatim so validation failures (insufficient
// stock, missing customer) reach the operator unmodified.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// IsValidation reports whether the error is a 4xx validation failure
// (unauthorized responses are handled by the session transport, not here)
func (e *APIError) IsValidation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusUnauthorized
}

// IsUnauthorized reports whether err is an unauthorized backend response,
// meaning the session could not be recovered by the refresh protocol
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a not-found backend response
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// decodeAPIError builds an APIError from an error response body. The backend
// emits either {"detail": "..."} or a field-keyed validation map whose values
// are strings or string lists; the first message found wins.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	if detail, ok := payload["detail"].(string); ok && detail != "" {
		apiErr.Detail = detail
		return apiErr
	}

	for _, value := range payload {
		switch v := value.(type) {
		case string:
			if v != "" {
				apiErr.Detail = v
				return apiErr
			}
		case []interface{}:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && s != "" {
					apiErr.Detail = s
					return apiErr
				}
			}
		}
	}

	return apiErr
}
