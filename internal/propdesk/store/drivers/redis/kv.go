// Package redis stores the session record in redis instead of the local
// sqlite database, for deployments that keep process state off-host.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
)

var _ store.KV = (*KV)(nil)

// KV implements store.KV on a redis client. Keys are namespaced with the given prefix.
type KV struct {
	client *goredis.Client
	prefix string
}

// New connects to addr. The connection is verified lazily; call Ping to check.
func New(addr, prefix string) *KV {
	return &KV{
		client: goredis.NewClient(&goredis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (k *KV) key(key string) string { return k.prefix + key }

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.client.Get(ctx, k.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	if err := k.client.Set(ctx, k.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, k.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (k *KV) Ping(ctx context.Context) error { return k.client.Ping(ctx).Err() }

func (k *KV) Close() error { return k.client.Close() }
