package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type SessionChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewSessionChecker(ttl time.Duration, redisClient *redis.Client) *SessionChecker {
	return &SessionChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (sc *SessionChecker) UserFromToken(ctx context.Context, token string) (int, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := sc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return 0, err
	}

	sessionDuration := time.Since(createdAt)
	if sessionDuration > sc.ttl {
		return 0, nil
	}

	return userID, nil
}
