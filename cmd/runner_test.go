package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/services"
	"github.com/desertthunder/sentix/internal/session"
	"github.com/desertthunder/sentix/internal/shared"
	tu "github.com/desertthunder/sentix/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := services.NewClient(services.ClientOptions{Logger: logger})
			manager := session.NewManager(session.Options{Store: tu.NewMemoryStore(""), Logger: logger})

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				API:        api,
				Session:    manager,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.gateway != services.Gateway(api) {
				t.Error("expected gateway to default to the api client")
			}
			if runner.session != manager {
				t.Error("expected session to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.gateway != nil {
				t.Error("expected nil gateway without an api client")
			}
		})

		t.Run("SetLogger replaces logger", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			logger := shared.NewLogger(io.Discard)
			runner.SetLogger(logger)

			if runner.logger != logger {
				t.Error("expected logger to be replaced")
			}
		})

		t.Run("SetLogger redirects session warnings", func(t *testing.T) {
			stderr, file := &bytes.Buffer{}, &bytes.Buffer{}
			store := tu.NewMemoryStore("")
			store.SaveErr = errors.New("disk full")
			manager := session.NewManager(session.Options{Store: store, Logger: shared.NewLogger(stderr)})
			runner := NewRunner(RunnerOpts{Session: manager})

			runner.SetLogger(shared.NewLogger(file))
			if err := manager.Login("tok", &models.User{Username: "alice"}); err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			if stderr.Len() != 0 {
				t.Errorf("expected nothing on the original logger, got %q", stderr.String())
			}
			if !strings.Contains(file.String(), "failed to persist token") {
				t.Errorf("expected warning in replacement logger, got %q", file.String())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("prompt", func(t *testing.T) {
		t.Run("reads one line", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Input: strings.NewReader("alice\r\nbob\n"), Output: output})

			got, err := runner.prompt("Username: ")
			if err != nil || got != "alice" {
				t.Errorf("expected alice, got %q %v", got, err)
			}
			if output.String() != "Username: " {
				t.Errorf("expected prompt label, got %q", output.String())
			}
			if got, _ := runner.prompt(""); got != "bob" {
				t.Errorf("expected bob, got %q", got)
			}
		})

		t.Run("exhausted input is empty", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: strings.NewReader(""), Output: io.Discard})

			got, err := runner.prompt("x")
			if err != nil || got != "" {
				t.Errorf("expected empty answer, got %q %v", got, err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "import", "api", "sandbox", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("requireSession", func(t *testing.T) {
		t.Run("without manager", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if _, err := runner.requireSession(context.Background()); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("signed out", func(t *testing.T) {
			manager := session.NewManager(session.Options{Store: tu.NewMemoryStore(""), Logger: shared.NewLogger(io.Discard)})
			runner := NewRunner(RunnerOpts{Session: manager})

			if _, err := runner.requireSession(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("restores persisted token", func(t *testing.T) {
			gateway := &tu.FakeGateway{}
			manager := session.NewManager(session.Options{Store: tu.NewMemoryStore("tok"), Profiles: gateway, Logger: shared.NewLogger(io.Discard)})
			runner := NewRunner(RunnerOpts{Session: manager})

			snap, err := runner.requireSession(context.Background())
			if err != nil {
				t.Fatalf("expected session, got %v", err)
			}
			if snap.Token != "tok" || snap.Username() != "tester" {
				t.Errorf("unexpected snapshot %+v", snap)
			}
		})

		t.Run("rejected token signs out", func(t *testing.T) {
			gateway := &tu.FakeGateway{ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, &services.APIError{StatusCode: 401, Detail: "Could not validate credentials"}
			}}
			store := tu.NewMemoryStore("stale")
			manager := session.NewManager(session.Options{Store: store, Profiles: gateway, Logger: shared.NewLogger(io.Discard)})
			runner := NewRunner(RunnerOpts{Session: manager})

			if _, err := runner.requireSession(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if store.Token() != "" {
				t.Errorf("expected stored token cleared, got %q", store.Token())
			}
		})
	})
}
