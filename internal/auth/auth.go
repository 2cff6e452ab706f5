// Package auth issues and validates the bearer sessions handed out after a
// successful backend login. Sessions live in memory only: the process is the
// single instance of an internal tool, and a restart just asks everyone to
// log in again.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// Session binds a hashed token to the employee it authenticates.
type Session struct {
	TokenHash string
	Employee  schedule.Employee
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore holds active sessions keyed by token hash. Plaintext tokens
// are never stored; lookups hash the presented token first.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (s *SessionStore) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create mints a session for the given employee. It returns the plaintext
// token handed to the client; only its hash is retained.
func (s *SessionStore) Create(emp schedule.Employee) (string, Session, error) {
	plaintext, err := generateToken()
	if err != nil {
		return "", Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := Session{
		TokenHash: HashToken(plaintext),
		Employee:  emp,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.TokenHash] = sess
	return plaintext, sess, nil
}

// Lookup resolves a plaintext token to its employee. Expired sessions are
// removed on sight and report not-found.
func (s *SessionStore) Lookup(plaintext string) (schedule.Employee, bool) {
	hash := HashToken(plaintext)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[hash]
	if !ok {
		return schedule.Employee{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, hash)
		return schedule.Employee{}, false
	}
	return sess.Employee, true
}

// Delete removes the session for the given plaintext token, if any.
func (s *SessionStore) Delete(plaintext string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, HashToken(plaintext))
}

// PruneExpired drops every expired session and returns how many it removed.
func (s *SessionStore) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for hash, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, hash)
			removed++
		}
	}
	return removed
}

// Active returns the number of live sessions.
func (s *SessionStore) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// generateToken creates a session token with the "sd_" prefix followed by
// 32 URL-safe random characters.
func generateToken() (string, error) {
	b := make([]byte, 24) // 24 bytes -> 32 base64url chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return "sd_" + base64.RawURLEncoding.EncodeToString(b), nil
}

// HashToken returns the hex-encoded SHA-256 hash of the given plaintext
// token.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
