package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	newCLIEnv(t)
	t.Setenv("DRM_LOG_LEVEL", "")
	dir := filepath.Join(t.TempDir(), "cfg")

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, configFileExt))

	assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend))
	assert.Equal(t, types.DefaultRedisPrefix, v.GetString(cfgKeyRedisPrefix))
	assert.Equal(t, defaultLogLevel, v.GetString(cfgKeyLogLevel))
	assert.Equal(t, program.DefaultLicenseTerm, v.GetDuration(cfgKeyLicenseTerm))
	assert.Equal(t, int32(9), v.GetInt32(cfgKeyTokenDecimals))
	assert.Equal(t, defaultHTTPAddr, v.GetString(cfgKeyHTTPAddr))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	newCLIEnv(t)
	dir := t.TempDir()
	yaml := "backend: redis\nredis:\n  addr: localhost:6379\nlicense:\n  term: 720h\ntoken:\n  decimals: 6\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(yaml), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendRedis, v.GetString(cfgKeyBackend))
	assert.Equal(t, "localhost:6379", v.GetString(cfgKeyRedisAddr))
	assert.Equal(t, 720*time.Hour, v.GetDuration(cfgKeyLicenseTerm))
	assert.Equal(t, int32(6), v.GetInt32(cfgKeyTokenDecimals))

	t.Setenv("DRM_REDIS_ADDR", "redis://cache:6380/1")
	v, err = loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6380/1", v.GetString(cfgKeyRedisAddr))
}

func TestLedgerConfigDataDirPrecedence(t *testing.T) {
	newCLIEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("data_dir: /from/config\n"), 0o644))
	v, err := loadConfig(dir)
	require.NoError(t, err)

	t.Setenv("DRM_DATA_DIR", "/from/env")
	a := &app{cfg: v}
	cfg, err := a.ledgerConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/config", cfg.DataDir)

	a.flags.dataDir = "/from/flag"
	cfg, err = a.ledgerConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.DataDir)
}
