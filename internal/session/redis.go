package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/commute-front/internal/models"
)

// RedisStore persists sessions in a redis hash per session: field "token"
// holds the bearer string, field "user" the profile JSON, field "created"
// the creation time. Durable across frontend restarts, bounded by ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisStore{client: c, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	m, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	s := &Session{ID: id, Token: m["token"]}
	if v, ok := m["created"]; ok {
		s.CreatedAt, _ = time.Parse(time.RFC3339, v)
	}
	var u models.User
	if err := json.Unmarshal([]byte(m["user"]), &u); err != nil {
		// Corrupted snapshot: purge both entries, report no session.
		_ = r.client.Del(ctx, sessionKey(id)).Err()
		return nil, nil
	}
	s.User = u
	return s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	key := sessionKey(s.ID)
	if err := r.client.HSet(ctx, key, map[string]interface{}{
		"token":   s.Token,
		"user":    string(b),
		"created": s.CreatedAt.Format(time.RFC3339),
	}).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Ping verifies connectivity at startup.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }
