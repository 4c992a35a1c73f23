package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions stores serialized session payloads keyed by opaque token.
type Sessions struct {
	client *redis.Client
}

func NewSessions(client *redis.Client) *Sessions {
	return &Sessions{client: client}
}

func (s *Sessions) Get(ctx context.Context, token string, v interface{}) (bool, error) {
	val, err := s.client.Get(ctx, "sess:"+token).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(val, v)
}

func (s *Sessions) Set(ctx context.Context, token string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, "sess:"+token, data, ttl).Err()
}

func (s *Sessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, "sess:"+token).Err()
}
