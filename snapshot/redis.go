package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

// A RedisStore keeps Snapshots in a Redis backend as JSON,
// so that every process sharing it sees the same catalog.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore connecting with the options passed in.
//
// Keys are prefixed with prefix.
// Snapshots expire after ttl, or never if ttl is zero.
func NewRedisStore(opts *redis.Options, prefix string, ttl time.Duration) RedisStore {
	return RedisStore{client: redis.NewClient(opts), prefix: prefix, ttl: ttl}
}

func (s RedisStore) key(typeName string) string { return s.prefix + "snapshot:" + typeName }

func (s RedisStore) index() string { return s.prefix + "types" }

// Ping checks the Redis backend is reachable.
func (s RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrStore, err)
	}

	return nil
}

// Close closes the connection to the Redis backend.
func (s RedisStore) Close() error { return s.client.Close() }

// Get retrieves the Snapshot of the Type named typeName.
func (s RedisStore) Get(ctx context.Context, typeName string) (Snapshot, error) {
	b, err := s.client.Get(ctx, s.key(typeName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("%w: snapshot of %s", ErrNotFound, typeName)
	}

	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrStore, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: snapshot of %s: %s", ErrStore, typeName, err)
	}

	return snap, nil
}

// Put saves snap and indexes its Type.
func (s RedisStore) Put(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStore, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(snap.Type), b, s.ttl)
		p.SAdd(ctx, s.index(), snap.Type)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStore, err)
	}

	return nil
}

// Types lists the names of the Types with a Snapshot, sorted.
// Types whose Snapshot expired are left out.
func (s RedisStore) Types(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStore, err)
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		exists, err := s.client.Exists(ctx, s.key(n)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrStore, err)
		}

		if exists == 0 {
			s.client.SRem(ctx, s.index(), n)
			continue
		}

		out = append(out, n)
	}
	sort.Strings(out)

	return out, nil
}
