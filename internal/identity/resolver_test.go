package identity_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/cleberfit/diariodecarga/internal/auth"
	"github.com/cleberfit/diariodecarga/internal/identity"
	"github.com/cleberfit/diariodecarga/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersMock struct {
	byEmail map[string]*users.User
}

func newUsersMock() *usersMock {
	return &usersMock{
		byEmail: map[string]*users.User{},
	}
}

func (m *usersMock) GetByEmail(_ context.Context, email string) (*users.User, error) {
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}
	return nil, users.ErrUserNotFound
}

func TestResolver_Resolve(t *testing.T) {
	checker := auth.NewSessionTestChecker()
	usersRepo := newUsersMock()
	usersRepo.byEmail["cleber@example.com"] = &users.User{ID: 7, Email: "cleber@example.com"}

	resolver := identity.NewResolver(checker, usersRepo)
	ctx := context.Background()

	// session user wins, even over a known email
	userID, err := resolver.Resolve(ctx, 42, "cleber@example.com")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	// email fallback
	userID, err = resolver.Resolve(ctx, 0, "cleber@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	// unknown email
	_, err = resolver.Resolve(ctx, 0, "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrNoIdentity)

	// nothing at all
	_, err = resolver.Resolve(ctx, 0, "")
	assert.ErrorIs(t, err, identity.ErrNoIdentity)
}

func TestResolver_ResolveRequest(t *testing.T) {
	checker := auth.NewSessionTestChecker()
	checker.Sessions["valid_token"] = 42

	usersRepo := newUsersMock()
	usersRepo.byEmail["cleber@example.com"] = &users.User{ID: 7, Email: "cleber@example.com"}

	resolver := identity.NewResolver(checker, usersRepo)

	req, err := http.NewRequest("GET", "/api/fichas", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: users.SessionCookieName, Value: "valid_token"})

	userID, err := resolver.ResolveRequest(req, "")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	// expired or unknown token falls back to the email
	req, err = http.NewRequest("GET", "/api/fichas", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: users.SessionCookieName, Value: "stale_token"})

	userID, err = resolver.ResolveRequest(req, "cleber@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	// no cookie, no email
	req, err = http.NewRequest("GET", "/api/fichas", nil)
	require.NoError(t, err)
	_, err = resolver.ResolveRequest(req, "")
	assert.ErrorIs(t, err, identity.ErrNoIdentity)
}
