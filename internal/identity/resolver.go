package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/cleberfit/diariodecarga/internal/auth"
	"github.com/cleberfit/diariodecarga/internal/users"
)

// ErrNoIdentity means neither the session nor the email fallback could be
// mapped to a known user.
var ErrNoIdentity = errors.New("no identity")

type userGetter interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// Resolver maps requests to a canonical user id. The session cookie wins,
// the email sent by the frontend is the fallback for session-less clients.
type Resolver struct {
	checker auth.Checker
	users   userGetter
}

func NewResolver(checker auth.Checker, users userGetter) *Resolver {
	return &Resolver{
		checker: checker,
		users:   users,
	}
}

func (r *Resolver) Resolve(ctx context.Context, sessionUserID int, email string) (int, error) {
	if sessionUserID != 0 {
		return sessionUserID, nil
	}
	if email == "" {
		return 0, ErrNoIdentity
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return 0, ErrNoIdentity
		}
		return 0, err
	}
	return user.ID, nil
}

// ResolveRequest reads the session cookie from the request, checks it, and
// falls back to the given email.
func (r *Resolver) ResolveRequest(req *http.Request, email string) (int, error) {
	ctx := req.Context()

	var sessionUserID int
	if cookie, err := req.Cookie(users.SessionCookieName); err == nil && cookie.Value != "" {
		userID, err := r.checker.UserFromToken(ctx, cookie.Value)
		if err != nil {
			return 0, err
		}
		sessionUserID = userID
	}

	return r.Resolve(ctx, sessionUserID, email)
}
