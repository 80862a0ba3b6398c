package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Service exposes the session backend connection and its health.
type Service interface {
	Health() map[string]string
	Client() *redis.Client
	Close() error
}

type service struct {
	db *redis.Client
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis and verifies the connection with a ping.
func New(opts Options) (Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return &service{db: client}, nil
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Session store health check failed")
		return map[string]string{
			"message": "session store down",
			"store":   "redis",
			"error":   err.Error(),
		}
	}

	return map[string]string{
		"message": "It's healthy",
		"store":   "redis",
	}
}

func (s *service) Client() *redis.Client {
	return s.db
}

func (s *service) Close() error {
	return s.db.Close()
}

type memoryService struct{}

// NewMemory returns a Service for deployments that keep sessions in process.
func NewMemory() Service {
	return memoryService{}
}

func (memoryService) Health() map[string]string {
	return map[string]string{
		"message": "It's healthy",
		"store":   "memory",
	}
}

func (memoryService) Client() *redis.Client { return nil }

func (memoryService) Close() error { return nil }
