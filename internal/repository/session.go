package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "askmate:session:"

// RedisSessionStore keeps login sessions in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Create issues a random token for the user.
func (r *RedisSessionStore) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()

	if err := r.client.Set(ctx, sessionKey(token), userID, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Get returns the user id of a live session, or ErrNotFound.
func (r *RedisSessionStore) Get(ctx context.Context, token string) (int, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, fmt.Errorf("session: %w", ErrNotFound)
	}

	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("loading session: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("decoding session: %w", err)
	}
	return userID, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
