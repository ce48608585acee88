package types

import "errors"

// Config holds backend selection and parameters for Ledger.Attach.
type Config struct {
	Backend string      `json:"backend" yaml:"backend"`
	DataDir string      `json:"data_dir" yaml:"data_dir"`
	Redis   RedisConfig `json:"redis" yaml:"redis"`
}

// RedisConfig holds connection parameters for the redis backend.
type RedisConfig struct {
	// Addr is either host:port or a redis:// URL.
	Addr string `json:"addr" yaml:"addr"`

	// Prefix namespaces every key written by the backend.
	Prefix string `json:"prefix" yaml:"prefix"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultRedisPrefix is used when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "drm"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisAddrEmpty = errors.New("redis address must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}

// GetPrefix returns the configured key prefix or DefaultRedisPrefix.
func (r RedisConfig) GetPrefix() string {
	if r.Prefix == "" {
		return DefaultRedisPrefix
	}
	return r.Prefix
}
