// Package drm is the public entry point for embedding the content-licensing
// ledger. It exposes a backend factory while keeping storage implementations
// internal.
package drm

import (
	"fmt"

	"github.com/mesh-intelligence/drm/internal/redis"
	"github.com/mesh-intelligence/drm/internal/sqlite"
	"github.com/mesh-intelligence/drm/pkg/types"
)

// Version is the release version of the drm module. Release builds stamp it
// through -ldflags.
var Version = "0.3.0"

// NewLedger returns an attached Ledger for the backend named in cfg.
// The caller must Detach it when done.
//
// Example:
//
//	ledger, err := drm.NewLedger(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".drm-db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer ledger.Detach()
func NewLedger(cfg types.Config) (types.Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var ledger types.Ledger
	switch cfg.Backend {
	case types.BackendSQLite:
		ledger = sqlite.NewBackend()
	case types.BackendRedis:
		ledger = redis.NewBackend()
	default:
		return nil, types.ErrBackendUnknown
	}

	if err := ledger.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach %s ledger: %w", cfg.Backend, err)
	}
	return ledger, nil
}
