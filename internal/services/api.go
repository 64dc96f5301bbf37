package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs an authenticated GET against the backend and returns the raw response regardless of status.
//
// An empty token sends the request without credentials.
func (c *Client) Get(ctx context.Context, path, token string) (*APIResponse, error) {
	return c.raw(ctx, http.MethodGet, path, token, nil)
}

// Post performs a POST with a JSON body and returns the raw response regardless of status.
func (c *Client) Post(ctx context.Context, path, token string, data []byte) (*APIResponse, error) {
	return c.raw(ctx, http.MethodPost, path, token, data)
}

func (c *Client) raw(ctx context.Context, method, path, token string, data []byte) (*APIResponse, error) {
	var body io.Reader
	contentType := ""
	if data != nil {
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, token, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
