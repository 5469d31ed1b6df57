// Package session persists the signed-in state: a bearer token and a user
// profile snapshot, the only data this frontend ever stores durably. Each
// browser holds a cookie with the session id; everything else lives in the
// Store.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/commute-front/internal/models"
)

const bearerPrefix = "Bearer "

// Session is one signed-in browser. Token always carries the "Bearer " prefix
// (see NormalizeToken); User is the profile snapshot taken at login and
// refreshed opportunistically by the dashboard.
type Session struct {
	ID        string
	Token     string
	User      models.User
	CreatedAt time.Time
}

// New mints a session with a fresh id and a normalized token.
func New(token string, user models.User) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Token:     NormalizeToken(token),
		User:      user,
		CreatedAt: time.Now(),
	}
}

// Valid reports whether the stored state identifies a user: a token plus a
// profile with non-empty id and email. Anything less is treated as no session.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != 0 && s.User.Email != ""
}

// NormalizeToken guarantees exactly one "Bearer " prefix whether the backend
// issued a raw token or an already-prefixed one.
func NormalizeToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, bearerPrefix) {
		return raw
	}
	return bearerPrefix + raw
}

// Store persists sessions. Get returns (nil, nil) for an unknown id; Delete
// of an unknown id is a no-op.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Load fetches a session and enforces the validity contract: an invalid
// record (missing token, or profile without id or email) is purged from the
// store and reported as absent. Running Load twice on the same id yields the
// same cleared state.
func Load(ctx context.Context, store Store, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	s, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if !s.Valid() {
		if err := store.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s, nil
}
