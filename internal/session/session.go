package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
)

// State is the authentication state of a [Manager].
type State int

const (
	Unauthenticated State = iota
	Validating
	Authenticated
	Invalid
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a consistent, copied view of the session at one instant.
type Snapshot struct {
	State State
	Token string
	User  *models.User
}

// IsAuthenticated reports whether the snapshot holds a validated token and user.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated
}

// Username returns the user's name, or an empty string when no user is known.
func (s Snapshot) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Session is the capability the view layer depends on.
type Session interface {
	Current() Snapshot
	Login(token string, user *models.User) error
	Logout()
}

// TokenSource supplies the bearer token for authenticated backend calls.
type TokenSource interface {
	Token() string
}

// Store persists the token between runs.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ProfileFetcher resolves a token into the user it belongs to.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (*models.User, error)
}

// Options configures a [Manager].
type Options struct {
	Store    Store
	Profiles ProfileFetcher
	Logger   *log.Logger
}

// Manager implements [Session] and [TokenSource].
type Manager struct {
	store    Store
	profiles ProfileFetcher
	log      atomic.Pointer[log.Logger]

	mu     sync.RWMutex
	state  State
	token  string
	user   *models.User
	gen    uint64
	inited bool

	ready     chan struct{}
	readyOnce sync.Once

	listenersMu sync.Mutex
	listeners   map[int]func(Snapshot)
	nextID      int
}

var (
	_ Session     = (*Manager)(nil)
	_ TokenSource = (*Manager)(nil)
)

// NewManager creates an Unauthenticated [Manager]. Call [Manager.Init] to restore a persisted token.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Manager{
		store:     opts.Store,
		profiles:  opts.Profiles,
		state:     Unauthenticated,
		ready:     make(chan struct{}),
		listeners: make(map[int]func(Snapshot)),
	}
	m.log.Store(logger)
	return m
}

// SetLogger replaces the manager's logger. Safe to call while a validation is running.
func (m *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		m.log.Store(l)
	}
}

func (m *Manager) logger() *log.Logger {
	return m.log.Load()
}

// Init restores the persisted token and starts validating it. It never blocks on the network.
//
// Use [Manager.Ready] to wait for the outcome.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.inited || m.state != Unauthenticated {
		m.inited = true
		validating := m.state == Validating
		m.mu.Unlock()
		// an in-flight validation closes ready itself
		if !validating {
			m.markReady()
		}
		return
	}
	m.inited = true

	token, err := m.load(ctx)
	if err != nil {
		m.logger().Warn("failed to read persisted token", "error", err)
	}
	if token == "" || m.profiles == nil {
		m.mu.Unlock()
		m.markReady()
		return
	}

	m.gen++
	gen := m.gen
	m.state = Validating
	m.token = token
	m.user = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	go m.validate(ctx, gen, token)
}

// Ready returns a channel that is closed once the startup validation has resolved.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) validate(ctx context.Context, gen uint64, token string) {
	defer m.markReady()

	user, err := m.profiles.Profile(ctx, token)
	if err == nil {
		err = user.Validate()
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger().Debug("discarding superseded token validation")
		return
	}

	if err == nil {
		m.state = Authenticated
		m.user = cloneUser(user)
		snap := m.snapshotLocked()
		m.mu.Unlock()

		m.logger().Debug("restored session", "user", user.Username)
		m.notify(snap)
		return
	}

	m.logger().Debug("persisted token rejected", "error", err)

	m.state = Invalid
	m.token = ""
	m.user = nil
	invalid := m.snapshotLocked()

	if cerr := m.clear(context.WithoutCancel(ctx)); cerr != nil {
		m.logger().Warn("failed to discard rejected token", "error", cerr)
	}

	m.state = Unauthenticated
	reset := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(invalid)
	m.notify(reset)
}

// Login records a token and user obtained elsewhere. It performs no network call.
//
// An empty token, nil user, or blank username returns [shared.ErrInvalidInput] and changes nothing.
// A failure to persist the token is logged and does not fail the transition.
func (m *Manager) Login(token string, user *models.User) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", shared.ErrInvalidInput)
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	m.mu.Lock()
	m.gen++
	m.state = Authenticated
	m.token = token
	m.user = cloneUser(user)

	if m.store != nil {
		if err := m.store.Save(context.Background(), token); err != nil {
			m.logger().Warn("failed to persist token", "error", err)
		}
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.markReady()
	m.notify(snap)
	return nil
}

// Logout clears the token, the user, and the persisted copy. Calling it again is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.gen++
	changed := m.state != Unauthenticated || m.token != "" || m.user != nil
	m.state = Unauthenticated
	m.token = ""
	m.user = nil

	if err := m.clear(context.Background()); err != nil {
		m.logger().Warn("failed to clear persisted token", "error", err)
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.markReady()
	if changed {
		m.notify(snap)
	}
}

// Teardown ends the session after the account itself is gone.
func (m *Manager) Teardown() {
	user := m.Current().Username()
	m.Logout()
	m.logger().Info("session torn down", "user", user)
}

// Current returns a copy of the session state.
func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Token returns the current bearer token, which may still be under validation.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers fn to be called with every state change. The returned func unregisters it.
//
// Listeners run on the goroutine that caused the change and must not block.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.listenersMu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			delete(m.listeners, id)
			m.listenersMu.Unlock()
		})
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.listenersMu.Lock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(Snapshot), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Manager) load(ctx context.Context) (string, error) {
	if m.store == nil {
		return "", nil
	}
	return m.store.Load(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	return m.store.Clear(ctx)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{State: m.state, Token: m.token, User: cloneUser(m.user)}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		email := *u.Email
		c.Email = &email
	}
	return &c
}
