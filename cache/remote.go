package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opsknowledge/retrieval-core/connmgr"
)

// RemoteTier is the out-of-process cache tier, backed by Redis and gated by
// a connmgr.Manager that tracks the connection's lifecycle independently of
// any single operation.
type RemoteTier struct {
	client *redis.Client
	mgr    *connmgr.Manager
	prefix string
}

// NewRemoteTier wraps client with the configured key prefix. mgr is used
// only to report MarkFailed on connection-shaped errors; it does not gate
// admission here (the cache circuit breaker at the service layer does
// that).
func NewRemoteTier(client *redis.Client, mgr *connmgr.Manager, prefix string) *RemoteTier {
	return &RemoteTier{client: client, mgr: mgr, prefix: prefix}
}

func (r *RemoteTier) prefixed(key string) string {
	return r.prefix + key
}

func (r *RemoteTier) get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.prefixed(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		r.markFailedIfConnErr(err)
		return Entry{}, false, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (r *RemoteTier) set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefixed(key), data, ttl).Err(); err != nil {
		r.markFailedIfConnErr(err)
		return err
	}
	return nil
}

func (r *RemoteTier) delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefixed(key)).Err(); err != nil {
		r.markFailedIfConnErr(err)
		return err
	}
	return nil
}

func (r *RemoteTier) clearByPrefix(ctx context.Context, prefix string) error {
	pattern := r.prefixed(prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			r.markFailedIfConnErr(err)
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.markFailedIfConnErr(err)
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *RemoteTier) clearAll(ctx context.Context) error {
	return r.clearByPrefix(ctx, "")
}

func (r *RemoteTier) ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.markFailedIfConnErr(err)
		return err
	}
	return nil
}

// markFailedIfConnErr nudges the connection manager to re-enter its
// reconnect loop on anything that is not a plain cache-miss condition.
func (r *RemoteTier) markFailedIfConnErr(err error) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	if r.mgr != nil {
		r.mgr.MarkFailed()
	}
}

var _ tier = (*RemoteTier)(nil)
