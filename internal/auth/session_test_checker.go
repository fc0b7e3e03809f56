package auth

import "context"

type SessionTestChecker struct {
	Sessions map[string]int
}

func NewSessionTestChecker() *SessionTestChecker {
	return &SessionTestChecker{
		Sessions: map[string]int{},
	}
}

func (c *SessionTestChecker) UserFromToken(_ context.Context, token string) (int, error) {
	if userID, ok := c.Sessions[token]; ok {
		return userID, nil
	}
	return 0, nil
}
