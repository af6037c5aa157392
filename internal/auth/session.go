package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/catalog/internal/storage"
)

// Session is the mock auth session kept in the local store. There is no
// real identity provider behind it; any username signs in.
type Session struct {
	User        string `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// Sessions issues and resolves mock sessions against the local store.
type Sessions struct {
	local *storage.LocalStore
	ttl   time.Duration
}

func NewSessions(local *storage.LocalStore) *Sessions {
	return &Sessions{local: local, ttl: 24 * time.Hour}
}

// SignIn creates a session for the given user, replacing any existing one.
func (s *Sessions) SignIn(user string) (Session, error) {
	sess := Session{
		User:        user,
		AccessToken: uuid.New().String(),
		ExpiresAt:   time.Now().Add(s.ttl).Format(time.RFC3339),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.local.SetKey(storage.SessionKey, data); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Current returns the active session, or false when none exists or the
// stored one has expired. Expired sessions are removed.
func (s *Sessions) Current() (Session, bool, error) {
	data, err := s.local.GetKey(storage.SessionKey)
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}
	if data == nil {
		return Session{}, false, nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}

	if exp, err := time.Parse(time.RFC3339, sess.ExpiresAt); err == nil && time.Now().After(exp) {
		_ = s.local.DeleteKey(storage.SessionKey)
		return Session{}, false, nil
	}
	return sess, true, nil
}

// SignOut removes the active session. Signing out twice is a no-op.
func (s *Sessions) SignOut() error {
	if err := s.local.DeleteKey(storage.SessionKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
