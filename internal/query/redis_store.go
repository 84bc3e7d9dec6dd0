package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nestquest/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const redisEntryTTL = time.Hour

// markStaleScript flips the stale flag in place so the entry keeps its data
// and TTL across invalidation.
var markStaleScript = redis.NewScript(`
	local v = redis.call('GET', KEYS[1])
	if not v then return 0 end
	local e = cjson.decode(v)
	e.stale = true
	redis.call('SET', KEYS[1], cjson.encode(e), 'KEEPTTL')
	return 1
`)

// RedisStore persists cache entries in Redis for shared gateway deployments.
type RedisStore struct {
	client *redis.Client
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	logger.GlobalLogger.Println("Redis cache store connected")
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.GlobalLogger.Errorf("failed to get cache key %s: %v", key, err)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		logger.GlobalLogger.Errorf("failed to unmarshal cache entry for key %s: %v", key, err)
		return nil, false
	}
	return &entry, true
}

func (s *RedisStore) Set(ctx context.Context, key string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %v", err)
	}
	if err := s.client.Set(ctx, key, data, redisEntryTTL).Err(); err != nil {
		logger.GlobalLogger.Errorf("failed to set cache key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *RedisStore) MarkStale(ctx context.Context, key string) error {
	if err := markStaleScript.Run(ctx, s.client, []string{key}).Err(); err != nil && err != redis.Nil {
		logger.GlobalLogger.Errorf("failed to mark cache key %s stale: %v", key, err)
		return err
	}
	return nil
}

func (s *RedisStore) MarkStalePrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.MarkStale(ctx, iter.Val()); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		logger.GlobalLogger.Errorf("failed to scan cache keys with prefix %s: %v", prefix, err)
		return err
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		logger.GlobalLogger.Errorf("failed to delete cache key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
