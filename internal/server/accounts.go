package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUsernameTaken = errors.New("username already exists")
	errEmailTaken    = errors.New("email already registered")
	errNoSuchUser    = errors.New("user not found")
	errBadPassword   = errors.New("incorrect username or password")
)

type account struct {
	ID       string
	Username string
	Email    string
	FullName string
	Role     string
	Hash     []byte
}

// userStore holds accounts in memory, keyed by username.
type userStore struct {
	mu    sync.RWMutex
	users map[string]*account
	cost  int
}

func newUserStore(cost int) *userStore {
	return &userStore{users: make(map[string]*account), cost: cost}
}

func (s *userStore) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return h, nil
}

func (s *userStore) create(username, password, email, fullName, role string) (*account, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil, errUsernameTaken
	}
	if email != "" {
		for _, u := range s.users {
			if u.Email == email {
				return nil, errEmailTaken
			}
		}
	}

	acct := &account{
		ID:       shared.GenerateID(),
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     role,
		Hash:     hash,
	}
	s.users[username] = acct
	return acct, nil
}

func (s *userStore) get(username string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.users[username]
	if !ok {
		return nil, false
	}
	c := *acct
	return &c, true
}

func (s *userStore) authenticate(username, password string) (*account, error) {
	acct, ok := s.get(username)
	if !ok {
		return nil, errBadPassword
	}
	if bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)) != nil {
		return nil, errBadPassword
	}
	return acct, nil
}

func (s *userStore) setPassword(username, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[username]
	if !ok {
		return errNoSuchUser
	}
	acct.Hash = hash
	return nil
}

func (s *userStore) usernameByEmail(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if email != "" && u.Email == email {
			return u.Username, true
		}
	}
	return "", false
}

func (s *userStore) delete(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return false
	}
	delete(s.users, username)
	return true
}

// tempPassword returns 16 URL-safe characters.
func tempPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
