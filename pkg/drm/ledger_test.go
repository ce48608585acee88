package drm

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/internal/redis"
	"github.com/mesh-intelligence/drm/internal/sqlite"
	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestNewLedger(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  types.Config
		want any
	}{
		{"sqlite", types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, &sqlite.Backend{}},
		{"redis", types.Config{Backend: types.BackendRedis, Redis: types.RedisConfig{Addr: mr.Addr()}}, &redis.Backend{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, err := NewLedger(tt.cfg)
			require.NoError(t, err)
			defer ledger.Detach()
			assert.IsType(t, tt.want, ledger)
		})
	}
}

func TestNewLedger_InvalidConfig(t *testing.T) {
	_, err := NewLedger(types.Config{Backend: "postgres"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = NewLedger(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
