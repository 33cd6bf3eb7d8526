package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore 多实例部署时共享会话，每个浏览器会话对应一个 hash
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "skill_console:session:", ttl: ttl}
}

func (s *RedisStore) key(sid string) string {
	return s.prefix + sid
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.key(sid), key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(sid), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(sid), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}
