package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"serenity/internal/core/model/response"
)

const defaultErrorMessage = "Request failed"

// ErrUnavailable wraps every failure that happened before a response was
// received: refused connections, timeouts, cancelled contexts.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsAuthError reports whether err is a rejected or missing credential.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// errorMessage extracts the message from either {"error":"..."} or the
// {"error":{"errors":[{"message":"..."}]}} envelope.
func errorMessage(body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return defaultErrorMessage
	}

	var plain string
	if err := json.Unmarshal(payload.Error, &plain); err == nil {
		if strings.TrimSpace(plain) == "" {
			return defaultErrorMessage
		}

		return plain
	}

	var envelope response.ResponseError
	if err := json.Unmarshal(payload.Error, &envelope); err == nil {
		for _, e := range envelope.Errors {
			if e.Message != "" {
				return e.Message
			}
		}
	}

	return defaultErrorMessage
}
