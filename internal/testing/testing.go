// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/sentix/internal/models"
)

// MemoryStore is an in-memory token store with optional failure injection.
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	saves    int
	clears   int
	LoadErr  error
	SaveErr  error
	ClearErr error
}

// NewMemoryStore returns a store pre-seeded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	return m.token, nil
}

func (m *MemoryStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.token = ""
	return nil
}

// Token returns the stored token without going through Load.
func (m *MemoryStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Clears returns how many times Clear was called.
func (m *MemoryStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// FakeGateway is a test double for the backend calls the session manager and import pipeline make.
//
// Nil funcs fall back to an authenticated "tester" profile and an empty count map.
type FakeGateway struct {
	ProfileFunc func(ctx context.Context, token string) (*models.User, error)
	ImportFunc  func(ctx context.Context, token string, file models.SelectedFile) (models.Counts, error)

	mu           sync.Mutex
	profileCalls int
	importCalls  int
	lastToken    string
	lastFile     models.SelectedFile
}

func (f *FakeGateway) Profile(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	f.profileCalls++
	f.lastToken = token
	fn := f.ProfileFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	return &models.User{Username: "tester"}, nil
}

func (f *FakeGateway) ImportReviews(ctx context.Context, token string, file models.SelectedFile) (models.Counts, error) {
	f.mu.Lock()
	f.importCalls++
	f.lastToken = token
	f.lastFile = file
	fn := f.ImportFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, file)
	}
	return models.Counts{}, nil
}

func (f *FakeGateway) ProfileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls
}

func (f *FakeGateway) ImportCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.importCalls
}

// LastToken returns the bearer token from the most recent call.
func (f *FakeGateway) LastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}

// LastFile returns the file from the most recent import call.
func (f *FakeGateway) LastFile() models.SelectedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFile
}

// StaticTokens is a token source that always returns the same value.
type StaticTokens string

func (s StaticTokens) Token() string { return string(s) }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
