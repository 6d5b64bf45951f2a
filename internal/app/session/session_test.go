package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/pkg/auth"
)

type loaderFunc func(ctx context.Context) (models.User, error)

func (f loaderFunc) Get(ctx context.Context) (models.User, error) { return f(ctx) }

func TestLoadAndPatch(t *testing.T) {
	s := New(nil)
	_, ok := s.User()
	assert.False(t, ok)
	assert.Empty(t, s.ViewerID())

	u, err := s.Load(context.Background(), loaderFunc(func(ctx context.Context) (models.User, error) {
		return models.User{ID: "u1", Username: "ann", Role: models.RoleAdmin}, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "u1", s.ViewerID())

	s.AddCommunity(models.CommunityRef{ID: "c1", Name: "Alpha"})
	s.AddCommunity(models.CommunityRef{ID: "c1", Name: "Alpha"})
	s.PatchUser(func(u *models.User) { u.ProfilePhoto = "me.png" })

	got, ok := s.User()
	require.True(t, ok)
	assert.Len(t, got.Communities, 1)
	assert.Equal(t, "me.png", got.ProfilePhoto)
}

func TestLoadFailureKeepsSession(t *testing.T) {
	s := New(nil)
	s.SetUser(models.User{ID: "u1"})

	_, err := s.Load(context.Background(), loaderFunc(func(ctx context.Context) (models.User, error) {
		return models.User{}, errors.New("unauthorized")
	}))
	assert.Error(t, err)
	assert.Equal(t, "u1", s.ViewerID())
}

func TestClearForgetsUserAndToken(t *testing.T) {
	tokens := auth.NewMemoryTokenStore("tok")
	s := New(tokens)
	s.SetUser(models.User{ID: "u1"})

	s.Clear()
	_, ok := s.User()
	assert.False(t, ok)
	assert.Empty(t, tokens.Token())
	s.PatchUser(func(u *models.User) { t.Fatal("patched anonymous session") })
}

func TestTokenExpiryAndAuthenticated(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	s := New(auth.NewMemoryTokenStore(signed))
	exp, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(now.Add(time.Hour)))

	assert.False(t, s.Authenticated(now))
	s.SetUser(models.User{ID: "u1"})
	assert.True(t, s.Authenticated(now))
	assert.False(t, s.Authenticated(now.Add(2*time.Hour)))

	opaque := New(auth.NewMemoryTokenStore("opaque"))
	_, ok = opaque.TokenExpiry()
	assert.False(t, ok)
}

func TestViewerIDFromTokenBeforeUserLoads(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u7"},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	s := New(auth.NewMemoryTokenStore(signed))
	assert.Equal(t, "u7", s.ViewerID())

	s.SetUser(models.User{ID: "u1"})
	assert.Equal(t, "u1", s.ViewerID())

	s.Clear()
	assert.Empty(t, s.ViewerID())
	assert.Empty(t, New(auth.NewMemoryTokenStore("opaque")).ViewerID())
}
