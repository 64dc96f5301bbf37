package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8000"
	requestIDKey   = "X-Request-ID"
)

// ClientOptions configures a [Client].
type ClientOptions struct {
	BaseURL string
	// HTTPClient overrides the transport. Its Timeout is left alone when set.
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *log.Logger
}

// Client implements [Gateway] over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	oauth      *oauth2.Config
}

var _ Gateway = (*Client)(nil)

// NewClient creates a [Client]. An empty base URL points at a local backend and a non-positive rate disables pacing.
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/auth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account. It validates the request before any network call.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", req.Username)
	form.Set("password", req.Password)
	form.Set("email", req.Email)
	form.Set("full_name", req.FullName)
	form.Set("role", req.Role)

	return c.postForm(ctx, "/auth/register", "", form, nil)
}

// Login exchanges a username and password for an access token using the OAuth2 password grant.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		c.logger.Debug("token request failed", "error", err)
		return nil, fromRetrieveError(err)
	}
	return token, nil
}

// Profile fetches the user the token belongs to.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil, "", &user); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: profile response: %v", shared.ErrAPIRequest, err)
	}
	return &user, nil
}

// ChangePassword updates the password and returns the backend's confirmation message.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) (string, error) {
	if token == "" {
		return "", shared.ErrNotAuthenticated
	}
	if err := ValidatePassword(next); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("current_password", current)
	form.Set("new_password", next)

	var out struct {
		Message string `json:"message"`
	}
	if err := c.postForm(ctx, "/auth/change-password", token, form, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword requests a temporary password for the account registered to email.
func (c *Client) ResetPassword(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}

	form := url.Values{}
	form.Set("email", email)

	var out struct {
		TempPassword string `json:"temp_password"`
	}
	if err := c.postForm(ctx, "/auth/reset-password", "", form, &out); err != nil {
		return "", err
	}
	return out.TempPassword, nil
}

// DeleteAccount permanently removes the authenticated account.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrNotAuthenticated
	}
	return c.do(ctx, http.MethodDelete, "/auth/delete-account", token, nil, "", nil)
}

// ImportReviews uploads a review file to the endpoint matching its format and returns the category counts.
func (c *Client) ImportReviews(ctx context.Context, token string, file models.SelectedFile) (models.Counts, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	path, err := ImportPath(file.Format)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, err
	}

	var counts map[string]int
	if err := c.do(ctx, http.MethodPost, path, token, body, contentType, &counts); err != nil {
		return nil, err
	}

	result := make(models.Counts, len(counts))
	for k, v := range counts {
		result[models.Category(k)] = v
	}
	return result, nil
}

func multipartBody(file models.SelectedFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", mimeType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) postForm(ctx context.Context, path, token string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, token, body, "application/x-www-form-urlencoded", out)
}

// do sends a request and decodes a JSON response into out. Non-2xx responses return [*APIError].
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, token, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		c.logger.Debug("backend error", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

// send paces, tags and dispatches a request. The caller closes the response body.
func (c *Client) send(ctx context.Context, method, path, token string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(requestIDKey, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	c.logger.Debug("backend request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return resp, nil
}
