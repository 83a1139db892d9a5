package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Each entry is a JSON envelope
// under <prefix>:entry:<key>; sorted sets scored by expiry and creation
// time act as the secondary indexes that make sweeps range deletes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(opts ...RedisOption) (*RedisStore, error) {
	cfg := &RedisConfig{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		Prefix:       "stockscan",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Treat IO errors as a miss; the caller recomputes.
			s.bumpCounter(ctx, "misses")
			return nil, false
		}
		s.bumpCounter(ctx, "misses")
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupted envelope: drop it and report a miss.
		s.deleteEntries(ctx, key)
		s.bumpCounter(ctx, "misses")
		return nil, false
	}
	if e.Expired(time.Now()) {
		s.deleteEntries(ctx, key)
		s.bumpCounter(ctx, "misses")
		return nil, false
	}

	e.HitCount++
	if raw, err := json.Marshal(&e); err == nil {
		// Last-writer-wins on the envelope; a lost hit increment is
		// tolerable, a blocked read path is not.
		s.client.Set(ctx, s.entryKey(key), raw, 0)
	}
	s.bumpCounter(ctx, "hits")
	return e.Payload, true
}

func (s *RedisStore) Set(ctx context.Context, key string, meta Meta, payload []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	e := Entry{
		Key:       key,
		Ticker:    meta.Ticker,
		Stage:     meta.Stage,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		SizeBytes: int64(len(payload)),
	}
	raw, err := json.Marshal(&e)
	if err != nil {
		return false
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.entryKey(key), raw, 0)
	pipe.ZAdd(ctx, s.expiryIndex(), redis.Z{Score: float64(e.ExpiresAt.Unix()), Member: key})
	pipe.ZAdd(ctx, s.createdIndex(), redis.Z{Score: float64(e.CreatedAt.Unix()), Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return false
	}
	return true
}

func (s *RedisStore) ClearExpired(ctx context.Context) int {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	keys, err := s.client.ZRangeByScore(ctx, s.expiryIndex(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + now,
	}).Result()
	if err != nil || len(keys) == 0 {
		return 0
	}
	return s.deleteEntries(ctx, keys...)
}

func (s *RedisStore) CleanupOlderThan(ctx context.Context, maxAge time.Duration) int {
	cutoff := strconv.FormatInt(time.Now().Add(-maxAge).Unix(), 10)
	keys, err := s.client.ZRangeByScore(ctx, s.createdIndex(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + cutoff,
	}).Result()
	if err != nil || len(keys) == 0 {
		return 0
	}
	return s.deleteEntries(ctx, keys...)
}

func (s *RedisStore) Stats(ctx context.Context) Stats {
	st := Stats{PerStage: make(map[string]int)}

	counters, err := s.client.HGetAll(ctx, s.countersKey()).Result()
	if err == nil {
		st.Hits, _ = strconv.ParseInt(counters["hits"], 10, 64)
		st.Misses, _ = strconv.ParseInt(counters["misses"], 10, 64)
	}
	st.HitRate = hitRate(st.Hits, st.Misses)

	keys, err := s.client.ZRange(ctx, s.expiryIndex(), 0, -1).Result()
	if err != nil || len(keys) == 0 {
		return st
	}

	now := time.Now()
	const chunk = 200
	for start := 0; start < len(keys); start += chunk {
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		entryKeys := make([]string, 0, end-start)
		for _, k := range keys[start:end] {
			entryKeys = append(entryKeys, s.entryKey(k))
		}
		values, err := s.client.MGet(ctx, entryKeys...).Result()
		if err != nil {
			continue
		}
		for _, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var e Entry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				continue
			}
			st.Total++
			st.TotalSize += e.SizeBytes
			if e.Expired(now) {
				st.Expired++
			} else {
				st.Active++
			}
			st.PerStage[e.Stage]++
		}
	}
	return st
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Client returns the underlying redis client.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) deleteEntries(ctx context.Context, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}
	entryKeys := make([]string, 0, len(keys))
	members := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		entryKeys = append(entryKeys, s.entryKey(k))
		members = append(members, k)
	}

	pipe := s.client.TxPipeline()
	del := pipe.Unlink(ctx, entryKeys...)
	pipe.ZRem(ctx, s.expiryIndex(), members...)
	pipe.ZRem(ctx, s.createdIndex(), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0
	}
	return int(del.Val())
}

func (s *RedisStore) bumpCounter(ctx context.Context, field string) {
	s.client.HIncrBy(ctx, s.countersKey(), field, 1)
}

func (s *RedisStore) entryKey(key string) string {
	return fmt.Sprintf("%s:entry:%s", s.prefix, key)
}

func (s *RedisStore) expiryIndex() string {
	return s.prefix + ":idx:expiry"
}

func (s *RedisStore) createdIndex() string {
	return s.prefix + ":idx:created"
}

func (s *RedisStore) countersKey() string {
	return s.prefix + ":counters"
}

var _ Store = (*RedisStore)(nil)
