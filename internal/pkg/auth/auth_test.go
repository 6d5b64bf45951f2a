package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return s
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	token := signedToken(t, Claims{
		UserID: "u1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Identity())
	assert.Equal(t, "admin", claims.Role)
}

func TestIdentityFallsBackToSubject(t *testing.T) {
	token := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-7"}})

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-7", claims.Identity())
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	past := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}})
	future := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}})
	noExp := signedToken(t, Claims{UserID: "u1"})

	expired, err := Expired(past, now)
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = Expired(future, now)
	require.NoError(t, err)
	assert.False(t, expired)

	expired, err = Expired(noExp, now)
	require.NoError(t, err)
	assert.False(t, expired)

	assert.ErrorIs(t, CheckUsable(past, now), apperrors.ErrTokenExpired)
	assert.NoError(t, CheckUsable(future, now))
	assert.NoError(t, CheckUsable("opaque-session-token", now))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("\"Bearer abc\"")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("  ")
	assert.Error(t, err)

	assert.Equal(t, "Bearer x", BearerHeader("x"))
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore("seed")
	assert.Equal(t, "seed", store.Token())
	require.NoError(t, store.SetToken("next"))
	assert.Equal(t, "next", store.Token())
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	assert.Empty(t, store.Token())
	require.NoError(t, store.SetToken("persisted"))
	assert.Equal(t, "persisted", NewFileTokenStore(path).Token())
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
	require.NoError(t, store.Clear())
}

func TestTokenStoresAcceptBearerHeaderValues(t *testing.T) {
	assert.Equal(t, "abc", NewMemoryTokenStore("Bearer abc").Token())

	mem := NewMemoryTokenStore("")
	require.NoError(t, mem.SetToken(" Bearer next "))
	assert.Equal(t, "next", mem.Token())

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("Bearer xyz\n"), 0o600))
	assert.Equal(t, "xyz", NewFileTokenStore(path).Token())
}
