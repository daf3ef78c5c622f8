// Package redis caches character snapshots in Redis as JSON documents keyed
// by character name.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/steelkilt/internal/config"
	"github.com/cory-johannsen/steelkilt/internal/game/character"
)

// ErrCacheMiss is returned when no snapshot is cached under a name.
var ErrCacheMiss = errors.New("character snapshot not cached")

// SnapshotCache stores snapshots under "<prefix>:character:<name>" and keeps
// the set of cached names under "<prefix>:characters".
type SnapshotCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSnapshotCache wraps an existing client.
//
// Precondition: client must be non-nil. A zero ttl keeps entries forever.
func NewSnapshotCache(client redis.UniversalClient, prefix string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to the server named in cfg and verifies it responds.
//
// Postcondition: Returns a ready cache or a non-nil error; the caller owns
// Close.
func Dial(ctx context.Context, cfg config.RedisConfig) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return NewSnapshotCache(client, cfg.KeyPrefix, cfg.TTL), nil
}

// Close closes the underlying client.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}

func (c *SnapshotCache) key(name string) string {
	return c.prefix + ":character:" + name
}

func (c *SnapshotCache) indexKey() string {
	return c.prefix + ":characters"
}

// Put caches ch under its name, replacing any earlier snapshot.
//
// Precondition: ch must be non-nil with a non-empty Name.
func (c *SnapshotCache) Put(ctx context.Context, ch *character.Character) error {
	if ch.Name == "" {
		return errors.New("caching character: name must not be empty")
	}
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encoding character %q: %w", ch.Name, err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.key(ch.Name), data, c.ttl)
		pipe.SAdd(ctx, c.indexKey(), ch.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("caching character %q: %w", ch.Name, err)
	}
	return nil
}

// Get returns the snapshot cached under name.
//
// Postcondition: Returns the character or ErrCacheMiss.
func (c *SnapshotCache) Get(ctx context.Context, name string) (*character.Character, error) {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading cached character %q: %w", name, err)
	}
	var ch character.Character
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("decoding cached character %q: %w", name, err)
	}
	return &ch, nil
}

// Delete evicts the snapshot cached under name.
//
// Postcondition: Returns ErrCacheMiss if nothing was cached.
func (c *SnapshotCache) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, c.key(name))
		pipe.SRem(ctx, c.indexKey(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("evicting character %q: %w", name, err)
	}
	if del.Val() == 0 {
		return ErrCacheMiss
	}
	return nil
}

// Names returns the sorted names with a live snapshot. Index entries whose
// snapshot has expired are pruned.
func (c *SnapshotCache) Names(ctx context.Context) ([]string, error) {
	members, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading cache index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	exists := make([]*redis.IntCmd, len(members))
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			exists[i] = pipe.Exists(ctx, c.key(m))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checking cached snapshots: %w", err)
	}

	var live, stale []string
	for i, m := range members {
		if exists[i].Val() > 0 {
			live = append(live, m)
		} else {
			stale = append(stale, m)
		}
	}
	if len(stale) > 0 {
		if err := c.client.SRem(ctx, c.indexKey(), stale).Err(); err != nil {
			return nil, fmt.Errorf("pruning cache index: %w", err)
		}
	}
	sort.Strings(live)
	return live, nil
}
