package auth

import "context"

var _ Checker = (*SessionChecker)(nil)
var _ Checker = (*SessionTestChecker)(nil)

// Checker resolves a session token to the id of the logged in user.
// A zero user id with a nil error means: no valid session.
type Checker interface {
	UserFromToken(ctx context.Context, token string) (int, error)
}
