package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"

	"github.com/nhle/animefeed/internal/model"
)

const serviceName = "animefeed"

// Keys under which the session is persisted.
const (
	tokenKey = "access-token"
	userKey  = "user-profile"
)

// Open returns a configured system keyring instance.
func Open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/animefeed/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("animefeed-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Session holds the bearer token and the signed-in user's profile in a
// keyring so they survive restarts. Reads are served from memory after
// Load.
type Session struct {
	ring keyring.Keyring

	mu    sync.RWMutex
	token string
	user  *model.User
}

// NewSession wraps ring. Call Load to read any persisted session.
func NewSession(ring keyring.Keyring) *Session {
	return &Session{ring: ring}
}

// Load reads the persisted token and profile. A missing entry is not an
// error; it leaves the session signed out.
func (s *Session) Load() error {
	token, err := s.get(tokenKey)
	if err != nil {
		return err
	}

	var user *model.User
	raw, err := s.get(userKey)
	if err != nil {
		return err
	}
	if raw != "" {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return fmt.Errorf("decoding stored user profile: %w", err)
		}
		user = &u
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user's profile, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SignedIn reports whether a token is present.
func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

// Store persists a freshly issued token and profile.
func (s *Session) Store(token string, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user profile: %w", err)
	}
	if err := s.set(tokenKey, token); err != nil {
		return err
	}
	if err := s.set(userKey, string(data)); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear forgets the token and profile, in memory and in the keyring.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	for _, key := range []string{tokenKey, userKey} {
		if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("deleting credential %q: %w", key, err)
		}
	}
	return nil
}

// get retrieves a credential value by key, returning "" when absent.
func (s *Session) get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// set stores a credential value by key.
func (s *Session) set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}
