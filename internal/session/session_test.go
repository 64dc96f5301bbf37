package session

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
	tu "github.com/desertthunder/sentix/internal/testing"
)

func newTestManager(store Store, profiles ProfileFetcher) *Manager {
	return NewManager(Options{Store: store, Profiles: profiles, Logger: shared.NewLogger(io.Discard)})
}

func waitReady(t *testing.T, m *Manager) {
	t.Helper()
	select {
	case <-m.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session validation")
	}
}

// recorder collects notified states in order.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
}

func (r *recorder) get() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestManagerLogin(t *testing.T) {
	email := "ada@example.com"
	ada := &models.User{Username: "ada", Email: &email}

	t.Run("login then read", func(t *testing.T) {
		store := tu.NewMemoryStore("")
		gateway := &tu.FakeGateway{}
		m := newTestManager(store, gateway)

		if err := m.Login("T", ada); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		snap := m.Current()
		if !snap.IsAuthenticated() {
			t.Errorf("expected authenticated, got %s", snap.State)
		}
		if snap.Token != "T" {
			t.Errorf("expected token T, got %q", snap.Token)
		}
		if snap.Username() != "ada" || snap.User.EmailOr("") != email {
			t.Errorf("unexpected user %+v", snap.User)
		}
		if gateway.ProfileCalls() != 0 {
			t.Errorf("login should not call the backend, got %d profile calls", gateway.ProfileCalls())
		}
		if store.Token() != "T" {
			t.Errorf("expected persisted token T, got %q", store.Token())
		}
		if m.Token() != "T" {
			t.Errorf("expected token source to return T, got %q", m.Token())
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		m := newTestManager(tu.NewMemoryStore(""), nil)
		user := &models.User{Username: "ada"}
		if err := m.Login("T", user); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		user.Username = "mallory"
		m.Current().User.Username = "eve"

		if got := m.Current().Username(); got != "ada" {
			t.Errorf("expected ada, got %s", got)
		}
	})

	t.Run("precondition violations change nothing", func(t *testing.T) {
		tc := []struct {
			name  string
			token string
			user  *models.User
		}{
			{name: "empty token", token: "", user: ada},
			{name: "blank token", token: "   ", user: ada},
			{name: "nil user", token: "T", user: nil},
			{name: "empty username", token: "T", user: &models.User{}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := tu.NewMemoryStore("")
				m := newTestManager(store, nil)

				err := m.Login(tt.token, tt.user)
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if snap := m.Current(); snap.State != Unauthenticated || snap.Token != "" || snap.User != nil {
					t.Errorf("expected untouched session, got %+v", snap)
				}
				if store.Saves() != 0 {
					t.Errorf("expected no store writes, got %d", store.Saves())
				}
			})
		}
	})

	t.Run("store failure does not fail login", func(t *testing.T) {
		store := tu.NewMemoryStore("")
		store.SaveErr = errors.New("disk full")
		m := newTestManager(store, nil)

		if err := m.Login("T", ada); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if !m.Current().IsAuthenticated() {
			t.Error("expected authenticated despite store failure")
		}
	})
}

func TestManagerLogout(t *testing.T) {
	t.Run("clears everything", func(t *testing.T) {
		store := tu.NewMemoryStore("")
		m := newTestManager(store, nil)
		if err := m.Login("T", &models.User{Username: "ada"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		m.Logout()

		snap := m.Current()
		if snap.IsAuthenticated() || snap.Token != "" || snap.User != nil {
			t.Errorf("expected cleared session, got %+v", snap)
		}
		if store.Token() != "" {
			t.Errorf("expected persisted token to be cleared, got %q", store.Token())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		m := newTestManager(tu.NewMemoryStore(""), nil)
		if err := m.Login("T", &models.User{Username: "ada"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		rec := &recorder{}
		m.Subscribe(rec.listen)

		m.Logout()
		m.Logout()

		if got := rec.get(); len(got) != 1 || got[0] != Unauthenticated {
			t.Errorf("expected a single unauthenticated notification, got %v", got)
		}
		if m.Current().State != Unauthenticated {
			t.Errorf("expected unauthenticated, got %s", m.Current().State)
		}
	})

	t.Run("teardown behaves like logout", func(t *testing.T) {
		store := tu.NewMemoryStore("")
		m := newTestManager(store, nil)
		if err := m.Login("T", &models.User{Username: "ada"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		m.Teardown()

		if m.Current().IsAuthenticated() || store.Token() != "" {
			t.Error("expected session and store to be cleared")
		}
	})
}

func TestManagerInit(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted token", func(t *testing.T) {
		gateway := &tu.FakeGateway{}
		m := newTestManager(tu.NewMemoryStore(""), gateway)

		m.Init(ctx)
		waitReady(t, m)

		if m.Current().State != Unauthenticated {
			t.Errorf("expected unauthenticated, got %s", m.Current().State)
		}
		if gateway.ProfileCalls() != 0 {
			t.Errorf("expected no profile calls, got %d", gateway.ProfileCalls())
		}
	})

	t.Run("valid persisted token", func(t *testing.T) {
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return &models.User{Username: "ada"}, nil
			},
		}
		m := newTestManager(tu.NewMemoryStore("saved"), gateway)
		rec := &recorder{}
		m.Subscribe(rec.listen)

		m.Init(ctx)
		waitReady(t, m)

		snap := m.Current()
		if !snap.IsAuthenticated() || snap.Token != "saved" || snap.Username() != "ada" {
			t.Errorf("expected restored session, got %+v", snap)
		}
		if gateway.LastToken() != "saved" {
			t.Errorf("expected profile fetch with saved token, got %q", gateway.LastToken())
		}

		want := []State{Validating, Authenticated}
		if got := rec.get(); !slices.Equal(got, want) {
			t.Errorf("expected transitions %v, got %v", want, got)
		}
	})

	t.Run("rejected persisted token", func(t *testing.T) {
		store := tu.NewMemoryStore("stale")
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, shared.ErrAuthFailed
			},
		}
		m := newTestManager(store, gateway)
		rec := &recorder{}
		m.Subscribe(rec.listen)

		m.Init(ctx)
		waitReady(t, m)

		snap := m.Current()
		if snap.State != Unauthenticated || snap.Token != "" || snap.User != nil {
			t.Errorf("expected reset session, got %+v", snap)
		}
		if store.Token() != "" {
			t.Errorf("expected stale token to be discarded, got %q", store.Token())
		}

		want := []State{Validating, Invalid, Unauthenticated}
		if got := rec.get(); !slices.Equal(got, want) {
			t.Errorf("expected transitions %v, got %v", want, got)
		}
	})

	t.Run("profile without username is rejected", func(t *testing.T) {
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return &models.User{}, nil
			},
		}
		m := newTestManager(tu.NewMemoryStore("saved"), gateway)

		m.Init(ctx)
		waitReady(t, m)

		if m.Current().State != Unauthenticated {
			t.Errorf("expected unauthenticated, got %s", m.Current().State)
		}
	})

	t.Run("store read failure is treated as logged out", func(t *testing.T) {
		store := tu.NewMemoryStore("saved")
		store.LoadErr = errors.New("locked")
		gateway := &tu.FakeGateway{}
		m := newTestManager(store, gateway)

		m.Init(ctx)
		waitReady(t, m)

		if m.Current().State != Unauthenticated || gateway.ProfileCalls() != 0 {
			t.Errorf("expected unauthenticated with no profile call, got %s", m.Current().State)
		}
	})

	t.Run("does not block on the network", func(t *testing.T) {
		release := make(chan struct{})
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				<-release
				return &models.User{Username: "ada"}, nil
			},
		}
		m := newTestManager(tu.NewMemoryStore("saved"), gateway)

		m.Init(ctx)

		if m.Current().State != Validating {
			t.Errorf("expected validating, got %s", m.Current().State)
		}
		if m.Token() != "saved" {
			t.Errorf("expected token to be available while validating, got %q", m.Token())
		}
		select {
		case <-m.Ready():
			t.Error("ready should not be closed while validating")
		default:
		}

		close(release)
		waitReady(t, m)
	})

	t.Run("second init while validating keeps ready open", func(t *testing.T) {
		release := make(chan struct{})
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				<-release
				return &models.User{Username: "ada"}, nil
			},
		}
		m := newTestManager(tu.NewMemoryStore("saved"), gateway)

		m.Init(ctx)
		m.Init(ctx)

		select {
		case <-m.Ready():
			t.Errorf("ready closed while state is %s", m.Current().State)
		default:
		}

		close(release)
		waitReady(t, m)

		if got := m.Current().State; got != Authenticated {
			t.Errorf("expected authenticated after validation, got %s", got)
		}
		if gateway.ProfileCalls() != 1 {
			t.Errorf("expected one profile call, got %d", gateway.ProfileCalls())
		}
	})

	t.Run("second init is a no-op", func(t *testing.T) {
		gateway := &tu.FakeGateway{}
		m := newTestManager(tu.NewMemoryStore("saved"), gateway)

		m.Init(ctx)
		waitReady(t, m)
		m.Init(ctx)

		if gateway.ProfileCalls() != 1 {
			t.Errorf("expected one profile call, got %d", gateway.ProfileCalls())
		}
	})
}

func TestManagerSupersededValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("login during validation wins", func(t *testing.T) {
		store := tu.NewMemoryStore("old")
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, shared.ErrAuthFailed
			},
		}
		m := newTestManager(store, gateway)

		m.mu.Lock()
		m.gen++
		gen := m.gen
		m.state = Validating
		m.token = "old"
		m.mu.Unlock()

		if err := m.Login("new", &models.User{Username: "bob"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		m.validate(ctx, gen, "old")

		snap := m.Current()
		if !snap.IsAuthenticated() || snap.Token != "new" || snap.Username() != "bob" {
			t.Errorf("stale validation overwrote login: %+v", snap)
		}
		if store.Token() != "new" {
			t.Errorf("stale validation cleared the new token, store has %q", store.Token())
		}
	})

	t.Run("logout during validation wins", func(t *testing.T) {
		gateway := &tu.FakeGateway{
			ProfileFunc: func(ctx context.Context, token string) (*models.User, error) {
				return &models.User{Username: "ada"}, nil
			},
		}
		m := newTestManager(tu.NewMemoryStore("old"), gateway)

		m.mu.Lock()
		m.gen++
		gen := m.gen
		m.state = Validating
		m.token = "old"
		m.mu.Unlock()

		m.Logout()
		m.validate(ctx, gen, "old")

		if m.Current().State != Unauthenticated {
			t.Errorf("expected logout to stick, got %s", m.Current().State)
		}
	})
}

func TestManagerSubscribe(t *testing.T) {
	m := newTestManager(tu.NewMemoryStore(""), nil)
	rec := &recorder{}
	cancel := m.Subscribe(rec.listen)

	if err := m.Login("T", &models.User{Username: "ada"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	cancel()
	cancel()
	m.Logout()

	if got := rec.get(); !slices.Equal(got, []State{Authenticated}) {
		t.Errorf("expected only the login notification, got %v", got)
	}
}

func TestManagerConcurrentReads(t *testing.T) {
	m := newTestManager(tu.NewMemoryStore(""), nil)
	user := &models.User{Username: "ada"}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			if i%2 == 0 {
				_ = m.Login("T", user)
			} else {
				m.Logout()
			}
		}
		close(stop)
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := m.Current()
				if snap.IsAuthenticated() && (snap.Token == "" || snap.User == nil) {
					t.Errorf("authenticated snapshot without token or user: %+v", snap)
					return
				}
				if snap.Token == "" && (snap.IsAuthenticated() || snap.User != nil) {
					t.Errorf("tokenless snapshot with user or auth: %+v", snap)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestStateString(t *testing.T) {
	tc := map[State]string{
		Unauthenticated: "unauthenticated",
		Validating:      "validating",
		Authenticated:   "authenticated",
		Invalid:         "invalid",
		State(42):       "state(42)",
	}
	for state, want := range tc {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %s, want %s", int(state), got, want)
		}
	}
}
