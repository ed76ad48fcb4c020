package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a request carries no session id.
var ErrNoSession = errors.New("session: no session")

// Store keeps per-session state: one field hash holding the identity and standalone values for
// hand-offs, flashes and view state.
type Store interface {
	Load(ctx context.Context, sid string) (map[string]string, error)
	Save(ctx context.Context, sid string, fields map[string]string) error
	Clear(ctx context.Context, sid string, fields ...string) error

	PutValue(ctx context.Context, key, value string, ttl time.Duration) error
	GetValue(ctx context.Context, key string) (string, bool, error)
	// TakeValue reads and deletes key in one step.
	TakeValue(ctx context.Context, key string) (string, bool, error)
}

// ValueKey builds the key of a per-session value.
func ValueKey(sid string, parts ...string) string {
	return sid + ":" + strings.Join(parts, ":")
}

const redisPrefix = "parkspot:"

// RedisStore keeps sessions in redis. The identity hash has a sliding TTL refreshed on every load.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore returns redis-backed store.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) hashKey(sid string) string {
	return fmt.Sprintf("%ssession:%s", redisPrefix, sid)
}

func (s *RedisStore) valueKey(key string) string {
	return redisPrefix + "value:" + key
}

// Load returns every identity field of sid.
func (s *RedisStore) Load(ctx context.Context, sid string) (map[string]string, error) {
	key := s.hashKey(sid)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 && s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// Save writes fields in key order.
func (s *RedisStore) Save(ctx context.Context, sid string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	key := s.hashKey(sid)
	if err := s.client.HSet(ctx, key, sortedPairs(fields)...).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

// Clear deletes fields from sid.
func (s *RedisStore) Clear(ctx context.Context, sid string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.hashKey(sid), fields...).Err()
}

// PutValue stores value under key for ttl.
func (s *RedisStore) PutValue(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.valueKey(key), value, ttl).Err()
}

// GetValue reads key without consuming it.
func (s *RedisStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	return found(s.client.Get(ctx, s.valueKey(key)).Result())
}

// TakeValue reads and deletes key.
func (s *RedisStore) TakeValue(ctx context.Context, key string) (string, bool, error) {
	return found(s.client.GetDel(ctx, s.valueKey(key)).Result())
}

func found(value string, err error) (string, bool, error) {
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func sortedPairs(fields map[string]string) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, fields[k])
	}
	return pairs
}
