// Package redis implements a Redis storage backend for the content-licensing
// ledger. Records are JSON values under prefix:kind:address keys; a set per
// kind indexes the addresses for listing. Instructions run as optimistic
// WATCH/MULTI/EXEC transactions, so concurrent writers to the same record
// never interleave and the loser of a race gets types.ErrRetry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// connectTimeout bounds the initial PING issued by Attach.
const connectTimeout = 5 * time.Second

// Backend implements types.Ledger on a Redis server.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	client   *goredis.Client
	prefix   string
}

var _ types.Ledger = (*Backend)(nil)

// NewBackend creates a detached Redis backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach connects to the server named by config.Redis.Addr, which may be
// host:port or a redis:// URL, and verifies it with PING.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendRedis {
		return fmt.Errorf("redis backend given %q: %w", config.Backend, types.ErrBackendUnknown)
	}

	client, err := connect(config.Redis.Addr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}

	b.client = client
	b.prefix = config.Redis.GetPrefix()
	b.attached = true
	return nil
}

// connect builds a client from a URL or host:port.
func connect(addr string) (*goredis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := goredis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return goredis.NewClient(opt), nil
	}
	return goredis.NewClient(&goredis.Options{Addr: addr}), nil
}

// Detach closes the client. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	b.attached = false
	return err
}

// View runs fn against the current state without a transaction.
func (b *Backend) View(ctx context.Context, fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrLedgerDetached
	}
	return fn(&txn{ctx: ctx, b: b, reader: b.client, readOnly: true})
}

// Update runs fn inside WATCH/MULTI/EXEC. Every key fn reads is watched
// before the read; writes are buffered and applied in one EXEC. If another
// client modified a watched key, nothing is written and ErrRetry is returned.
func (b *Backend) Update(ctx context.Context, fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrLedgerDetached
	}

	err := b.client.Watch(ctx, func(rtx *goredis.Tx) error {
		t := &txn{ctx: ctx, b: b, reader: rtx, watcher: rtx, pending: make(map[string]*write)}
		if err := fn(t); err != nil {
			return err
		}
		if len(t.order) == 0 {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			for _, key := range t.order {
				w := t.pending[key]
				p.Set(ctx, key, w.data, 0)
				if w.created {
					p.SAdd(ctx, b.indexKey(w.kind), w.addr)
				}
			}
			return nil
		})
		return err
	})
	if errors.Is(err, goredis.TxFailedErr) {
		return types.ErrRetry
	}
	return err
}

// Fetch returns every record of kind matching filter, oldest first.
func (b *Backend) Fetch(ctx context.Context, kind string, filter types.Filter) ([]any, error) {
	if err := filter.Validate(kind); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrLedgerDetached
	}

	addrs, err := b.client.SMembers(ctx, b.indexKey(kind)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s index: %w", kind, err)
	}
	results := []any{}
	if len(addrs) == 0 {
		return results, nil
	}

	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = b.recordKey(kind, types.Address(a))
	}
	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", kind, err)
	}

	recs := make([]types.Record, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := types.NewRecord(kind)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(s), rec); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", keys[i], err)
		}
		if filter.Match(rec) {
			recs = append(recs, rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ki, kj := sortKey(recs[i]), sortKey(recs[j])
		if ki != kj {
			return ki < kj
		}
		return recs[i].Address() < recs[j].Address()
	})
	for _, r := range recs {
		results = append(results, r)
	}
	return results, nil
}

func (b *Backend) recordKey(kind string, addr types.Address) string {
	return b.prefix + ":" + kind + ":" + string(addr)
}

func (b *Backend) indexKey(kind string) string {
	return b.prefix + ":" + kind + ":index"
}

// sortKey orders records the same way the SQLite backend does.
func sortKey(rec types.Record) string {
	const layout = "2006-01-02T15:04:05.000000000Z"
	switch r := rec.(type) {
	case *types.Content:
		return r.CreatedAt.UTC().Format(layout)
	case *types.License:
		return r.PurchasedAt.UTC().Format(layout)
	case *types.Package:
		return r.CreatedAt.UTC().Format(layout)
	case *types.TokenAccount:
		return r.Owner
	case *types.Registry:
		return r.CreatedAt.UTC().Format(layout)
	}
	return ""
}
