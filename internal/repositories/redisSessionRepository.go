package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"leadgate/internal/models"
)

const (
	keySession = "leadgate:session:%s"

	// maxTxRetries bounds optimistic retries when a watched session changes
	// between read and write.
	maxTxRetries = 10
)

// ErrSessionContended is returned when an atomic session change keeps losing
// to concurrent writers.
var ErrSessionContended = errors.New("session changed concurrently")

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository stores sessions as JSON values that expire ttl
// after their last save.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl}
}

func (r *redisSessionRepository) Find(ctx context.Context, token string) (*models.OTPSession, error) {
	return getSession(ctx, r.client, fmt.Sprintf(keySession, token))
}

func (r *redisSessionRepository) Save(ctx context.Context, token string, session *models.OTPSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, fmt.Sprintf(keySession, token), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, fmt.Sprintf(keySession, token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Update(ctx context.Context, token string, fn func(session *models.OTPSession) error) error {
	key := fmt.Sprintf(keySession, token)

	return r.watch(ctx, key, func(tx *redis.Tx) error {
		session, err := getSession(ctx, tx, key)
		if err != nil {
			return err
		}
		if session == nil {
			return fn(nil)
		}
		if err := fn(session); err != nil {
			return err
		}

		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	})
}

func (r *redisSessionRepository) TakeVerified(ctx context.Context, token string) (*models.OTPSession, error) {
	key := fmt.Sprintf(keySession, token)

	var taken *models.OTPSession
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		taken = nil

		session, err := getSession(ctx, tx, key)
		if err != nil || session == nil || !session.Verified {
			return err
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		}); err != nil {
			return err
		}

		taken = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

// watch runs fn in a WATCH transaction on key, retrying when another client
// modifies key before fn's writes commit.
func (r *redisSessionRepository) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("failed to update session in Redis: %w", ErrSessionContended)
}

func getSession(ctx context.Context, c redis.Cmdable, key string) (*models.OTPSession, error) {
	val, err := c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session models.OTPSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
