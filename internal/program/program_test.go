package program

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/internal/redis"
	"github.com/mesh-intelligence/drm/internal/sqlite"
	"github.com/mesh-intelligence/drm/pkg/types"
)

const (
	auth  = "Auth"
	buyer = "Buyer"
	other = "Mallory"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type ledgerFactory func(t *testing.T) types.Ledger

func sqliteLedger(t *testing.T) types.Ledger {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func redisLedger(t *testing.T) types.Ledger {
	t.Helper()
	mr := miniredis.RunT(t)
	b := redis.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendRedis, Redis: types.RedisConfig{Addr: mr.Addr()}}))
	t.Cleanup(func() { b.Detach() })
	return b
}

var backends = map[string]ledgerFactory{
	"sqlite": sqliteLedger,
	"redis":  redisLedger,
}

// eachBackend runs fn once per storage backend.
func eachBackend(t *testing.T, fn func(t *testing.T, newLedger ledgerFactory)) {
	for name, f := range backends {
		t.Run(name, func(t *testing.T) { fn(t, f) })
	}
}

// fixture is an initialized program with clock control.
type fixture struct {
	p      *Program
	ledger types.Ledger
	clock  *clock
	ctx    context.Context
}

func newFixture(t *testing.T, newLedger ledgerFactory, opts ...Option) *fixture {
	t.Helper()
	c := &clock{t: epoch}
	l := newLedger(t)
	opts = append([]Option{WithClock(c.Now)}, opts...)
	return &fixture{p: New(l, opts...), ledger: l, clock: c, ctx: context.Background()}
}

// initialized returns a fixture whose registry is owned by auth and whose
// buyer holds funds.
func initialized(t *testing.T, newLedger ledgerFactory, opts ...Option) *fixture {
	t.Helper()
	f := newFixture(t, newLedger, opts...)
	_, err := f.p.Initialize(f.ctx, auth)
	require.NoError(t, err)
	_, err = f.p.MintTokens(f.ctx, auth, buyer, 1_000_000_000)
	require.NoError(t, err)
	return f
}

func (f *fixture) createContent(t *testing.T, id string, price, capacity int64) *types.Content {
	t.Helper()
	c, err := f.p.CreateContent(f.ctx, auth, CreateContentArgs{
		ContentID:   id,
		ContentHash: "hash-" + id,
		Price:       price,
		MaxLicenses: capacity,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) content(t *testing.T, id string) *types.Content {
	t.Helper()
	c, err := f.p.Content(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) registry(t *testing.T) *types.Registry {
	t.Helper()
	r, err := f.p.Registry(f.ctx)
	require.NoError(t, err)
	return r
}

func (f *fixture) balance(t *testing.T, owner string) uint64 {
	t.Helper()
	n, err := f.p.Balance(f.ctx, owner)
	require.NoError(t, err)
	return n
}

func ptr[T any](v T) *T { return &v }
