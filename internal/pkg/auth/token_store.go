package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore keeps the bearer token between requests
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// MemoryTokenStore holds the token in process memory
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates a store seeded with token (may be empty)
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: normalize(token)}
}

// Token returns the stored token
func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the stored token
func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	s.token = normalize(token)
	s.mu.Unlock()
	return nil
}

// Clear removes the stored token
func (s *MemoryTokenStore) Clear() error {
	return s.SetToken("")
}

// FileTokenStore persists the token to a file with owner-only permissions.
// Used by the CLI so that a login survives between invocations.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates a store backed by path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token returns the stored token, empty when the file does not exist
func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return normalize(string(data))
}

// SetToken writes the token file
func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(normalize(token)), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear deletes the token file
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// normalize accepts a raw token or a pasted "Bearer <token>" header value
func normalize(token string) string {
	t, err := ExtractBearerToken(token)
	if err != nil {
		return ""
	}
	return t
}
