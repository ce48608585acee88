package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// reader is the subset of commands txn issues for reads; both
// *goredis.Client and *goredis.Tx satisfy it.
type reader interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

// write is a buffered SET applied at EXEC time.
type write struct {
	kind    string
	addr    string
	data    []byte
	created bool
}

// txn implements types.Tx. Reads inside Update watch their key first; writes
// are buffered and visible to later reads in the same transaction.
type txn struct {
	ctx      context.Context
	b        *Backend
	reader   reader
	watcher  *goredis.Tx
	readOnly bool

	pending map[string]*write
	order   []string
}

var _ types.Tx = (*txn)(nil)

// Get loads the record at addr into dst. dst should be a zero value.
func (t *txn) Get(addr types.Address, dst types.Record) error {
	if addr == "" {
		return types.ErrNotFound
	}
	key := t.b.recordKey(dst.Kind(), addr)

	if w, ok := t.pending[key]; ok {
		return json.Unmarshal(w.data, dst)
	}
	if err := t.watch(key); err != nil {
		return err
	}

	data, err := t.reader.Get(t.ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting %s %s: %w", dst.Kind(), addr, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s %s: %w", dst.Kind(), addr, err)
	}
	return nil
}

// Create buffers rec for insertion. Returns ErrAddressInUse if a record
// already lives at its address.
func (t *txn) Create(rec types.Record) error {
	if t.readOnly {
		return types.ErrReadOnly
	}
	exists, err := t.exists(rec)
	if err != nil {
		return err
	}
	if exists {
		return types.ErrAddressInUse
	}
	return t.buffer(rec, true)
}

// Put buffers an overwrite of an existing record.
func (t *txn) Put(rec types.Record) error {
	if t.readOnly {
		return types.ErrReadOnly
	}
	exists, err := t.exists(rec)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrNotFound
	}
	return t.buffer(rec, false)
}

func (t *txn) exists(rec types.Record) (bool, error) {
	if _, err := types.NewRecord(rec.Kind()); err != nil {
		return false, err
	}
	key := t.b.recordKey(rec.Kind(), rec.Address())
	if _, ok := t.pending[key]; ok {
		return true, nil
	}
	if err := t.watch(key); err != nil {
		return false, err
	}
	n, err := t.reader.Exists(t.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("checking %s existence: %w", rec.Kind(), err)
	}
	return n > 0, nil
}

func (t *txn) buffer(rec types.Record, created bool) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rec.Kind(), err)
	}
	key := t.b.recordKey(rec.Kind(), rec.Address())
	if w, ok := t.pending[key]; ok {
		w.data = data
		return nil
	}
	t.pending[key] = &write{
		kind:    rec.Kind(),
		addr:    string(rec.Address()),
		data:    data,
		created: created,
	}
	t.order = append(t.order, key)
	return nil
}

// watch adds key to the optimistic watch set. A no-op outside Update.
func (t *txn) watch(key string) error {
	if t.watcher == nil {
		return nil
	}
	if err := t.watcher.Watch(t.ctx, key).Err(); err != nil {
		return fmt.Errorf("watching %s: %w", key, err)
	}
	return nil
}
