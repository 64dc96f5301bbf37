package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which routes it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures a [Sandbox].
type Options struct {
	Secret         string
	TokenTTL       time.Duration
	MaxUploadBytes int64
	// BcryptCost defaults to [bcrypt.DefaultCost]; tests lower it.
	BcryptCost int
	Logger     *log.Logger
	Now        func() time.Time
}

// Sandbox is an in-memory implementation of the backend API.
type Sandbox struct {
	router *BasicRouter
	users  *userStore
	tokens *tokenIssuer
	logger *log.Logger
}

// New creates a [Sandbox] with all routes registered.
func New(opts Options) (*Sandbox, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("%w: sandbox secret is required", shared.ErrInvalidConfig)
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Sandbox{
		router: NewBasicRouter(),
		users:  newUserStore(opts.BcryptCost),
		tokens: newTokenIssuer(opts.Secret, opts.TokenTTL, opts.Now),
		logger: opts.Logger,
	}

	s.router.Use(RequestID, Recoverer(s.logger), RequestLogger(s.logger))
	s.router.Handler(&AuthHandler{users: s.users, tokens: s.tokens, logger: s.logger})
	s.router.Handler(&ReviewsHandler{users: s.users, tokens: s.tokens, maxBytes: opts.MaxUploadBytes, logger: s.logger})

	return s, nil
}

// ServeHTTP implements [http.Handler].
func (s *Sandbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Sandbox) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("sandbox backend listening", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
		return err
	}
	s.logger.Info("sandbox backend stopped")
	return nil
}
