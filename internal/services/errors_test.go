package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/desertthunder/sentix/internal/shared"
)

func TestParseDetail(t *testing.T) {
	tc := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"Invalid file format"}`, want: "Invalid file format"},
		{name: "validation list", body: `{"detail":[{"loc":["body","username"],"msg":"field required"},{"msg":"too short"}]}`, want: "field required; too short"},
		{name: "no detail", body: `{"error":"boom"}`, want: ""},
		{name: "not json", body: `<html>Bad Gateway</html>`, want: ""},
		{name: "empty body", body: ``, want: ""},
		{name: "numeric detail", body: `{"detail":42}`, want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("parseDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Run("matches sentinels", func(t *testing.T) {
		unauthorized := fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusUnauthorized})
		if !errors.Is(unauthorized, shared.ErrAuthFailed) || !errors.Is(unauthorized, shared.ErrAPIRequest) {
			t.Errorf("expected 401 to match both sentinels")
		}

		serverErr := &APIError{StatusCode: http.StatusInternalServerError}
		if errors.Is(serverErr, shared.ErrAuthFailed) {
			t.Error("500 should not match ErrAuthFailed")
		}
	})

	t.Run("message", func(t *testing.T) {
		if got := (&APIError{StatusCode: 404}).Error(); got != "backend returned 404 Not Found" {
			t.Errorf("unexpected message %q", got)
		}
		if got := (&APIError{StatusCode: 400, Detail: "bad"}).Error(); got != "backend returned 400: bad" {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("DetailMessage fallback", func(t *testing.T) {
		fallback := "Failed to import reviews. Please try again."
		tc := []error{
			errors.New("connection refused"),
			&APIError{StatusCode: 500},
			&APIError{StatusCode: 500, Detail: "   "},
			nil,
		}
		for _, err := range tc {
			if got := DetailMessage(err, fallback); got != fallback {
				t.Errorf("DetailMessage(%v) = %q, want fallback", err, got)
			}
		}
	})
}
