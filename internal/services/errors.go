package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/oauth2"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Is matches [shared.ErrAPIRequest] for every status and [shared.ErrAuthFailed] for 401.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// DetailMessage returns the backend's detail message carried by err, or fallback when there is none.
func DetailMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return fallback
}

// newAPIError builds an [APIError] from a response status and body.
func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: parseDetail(body)}
}

// fromRetrieveError converts an OAuth2 token endpoint failure into an [APIError].
func fromRetrieveError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	status := http.StatusBadRequest
	if re.Response != nil {
		status = re.Response.StatusCode
	}

	apiErr := newAPIError(status, re.Body)
	if apiErr.Detail == "" {
		apiErr.Detail = re.ErrorDescription
	}
	return apiErr
}

// parseDetail extracts FastAPI's {"detail": ...} message.
//
// detail is either a string or a list of validation errors whose msg fields are joined.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
