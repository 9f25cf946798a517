package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores each entry as a JSON string under prefix+"file:"+key and keeps
// a sorted set of keys scored by expiry time for sweeps.
type Redis struct {
	client redis.Cmdable
	prefix string
}

// NewRedis returns a Redis index using client. prefix namespaces every key,
// e.g. "filedrop:".
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) entryKey(key string) string { return r.prefix + "file:" + key }
func (r *Redis) expiryKey() string          { return r.prefix + "expiry" }

// Put stores e and records its expiry time.
func (r *Redis) Put(ctx context.Context, e *Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.entryKey(e.Key), b, 0)
		if !e.ExpiresAt.IsZero() {
			p.ZAdd(ctx, r.expiryKey(), redis.Z{Score: float64(e.ExpiresAt.UnixMilli()), Member: e.Key})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put entry %q: %w", e.Key, err)
	}
	return nil
}

// Get fetches an entry by its key.
func (r *Redis) Get(ctx context.Context, key string) (*Entry, error) {
	b, err := r.client.Get(ctx, r.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %q: %w", key, err)
	}
	return decodeEntry(b)
}

// Delete removes the entry and its expiry record.
func (r *Redis) Delete(ctx context.Context, key string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.entryKey(key))
		p.ZRem(ctx, r.expiryKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", key, err)
	}
	return nil
}

// Expired returns matching entries ordered by expiry time.
func (r *Redis) Expired(ctx context.Context, before time.Time) ([]*Entry, error) {
	keys, err := r.client.ZRangeByScore(ctx, r.expiryKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(before.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range expired: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.entryKey(k)
	}
	vals, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("load expired: %w", err)
	}

	out := make([]*Entry, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// entry deleted after the range query
			continue
		}
		e, err := decodeEntry([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeEntry(b []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &e, nil
}
