// Package session holds the signed-in user of a workspace. Pages depend on the
// Provider interface; Session is the implementation constructed once per workspace.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/pkg/auth"
)

// Provider gives read access to the current user and a controlled setter
type Provider interface {
	User() (models.User, bool)
	ViewerID() string
	SetUser(u models.User)
	PatchUser(patch func(*models.User))
	AddCommunity(ref models.CommunityRef)
	Clear()
}

// UserLoader fetches the signed-in user from the server
type UserLoader interface {
	Get(ctx context.Context) (models.User, error)
}

// Session is the Provider of one workspace
type Session struct {
	mu     sync.RWMutex
	user   *models.User
	tokens auth.TokenStore
}

// New creates an anonymous session over tokens
func New(tokens auth.TokenStore) *Session {
	if tokens == nil {
		tokens = auth.NewMemoryTokenStore("")
	}
	return &Session{tokens: tokens}
}

// User returns the signed-in user
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// ViewerID returns the signed-in user's id. Before the user is loaded it is
// read from the stored token's claims; empty when anonymous or opaque.
func (s *Session) ViewerID() string {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	if user != nil {
		return user.ID
	}

	token := s.tokens.Token()
	if token == "" {
		return ""
	}
	claims, err := auth.Inspect(token)
	if err != nil {
		return ""
	}
	return claims.Identity()
}

// SetUser replaces the signed-in user
func (s *Session) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// PatchUser edits the signed-in user in place; no-op when anonymous
func (s *Session) PatchUser(patch func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		patch(s.user)
	}
}

// AddCommunity records a community the user just created or joined
func (s *Session) AddCommunity(ref models.CommunityRef) {
	s.PatchUser(func(u *models.User) {
		for _, c := range u.Communities {
			if c.ID == ref.ID {
				return
			}
		}
		u.Communities = append(u.Communities, ref)
	})
}

// Clear signs the user out locally
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	_ = s.tokens.Clear()
}

// Load fetches the user from the server into the session
func (s *Session) Load(ctx context.Context, loader UserLoader) (models.User, error) {
	u, err := loader.Get(ctx)
	if err != nil {
		return models.User{}, err
	}
	s.SetUser(u)
	return u, nil
}

// Tokens returns the bearer token store
func (s *Session) Tokens() auth.TokenStore { return s.tokens }

// TokenExpiry returns when the stored token expires, if it is a JWT with an exp claim
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.tokens.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims, err := auth.Inspect(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Authenticated reports whether a user is loaded and the token, if any, is still usable
func (s *Session) Authenticated(now time.Time) bool {
	if _, ok := s.User(); !ok {
		return false
	}
	token := s.tokens.Token()
	return token == "" || auth.CheckUsable(token, now) == nil
}
