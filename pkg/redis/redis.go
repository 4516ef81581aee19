package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/fyyur-backend/config"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init opens the shared Redis connection and pings it.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// FlashStore keeps pending flash messages per browser session in a Redis
// list. Entries expire after ttl so abandoned sessions clean themselves up.
type FlashStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewFlashStore(client redis.Cmdable, ttl time.Duration) *FlashStore {
	return &FlashStore{client: client, ttl: ttl}
}

func flashKey(sessionID string) string {
	return fmt.Sprintf("flash:%s", sessionID)
}

// Load returns the stored messages without removing them.
func (s *FlashStore) Load(ctx context.Context, sessionID string) ([]string, error) {
	values, err := s.client.LRange(ctx, flashKey(sessionID), 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to load flash messages", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return values, nil
}

// Replace atomically swaps the stored messages for values. An empty values
// slice clears the session.
func (s *FlashStore) Replace(ctx context.Context, sessionID string, values []string) error {
	key := flashKey(sessionID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) == 0 {
			return nil
		}
		args := make([]interface{}, len(values))
		for i, v := range values {
			args[i] = v
		}
		pipe.RPush(ctx, key, args...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		logger.Error("Failed to store flash messages", err, map[string]interface{}{
			"session_id": sessionID,
			"count":      len(values),
		})
		return err
	}

	logger.Debug("Flash messages stored", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(values),
	})
	return nil
}
