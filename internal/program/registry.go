package program

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// Initialize creates the registry with signer as its authority. The registry
// can be created once; a second call fails with ErrAlreadyInitialized.
func (p *Program) Initialize(ctx context.Context, signer string) (*types.Registry, error) {
	if signer == "" {
		return nil, types.ErrInvalidParameters
	}

	reg := &types.Registry{Authority: signer, CreatedAt: p.timestamp()}
	err := p.update(ctx, "initialize", func(tx types.Tx) error {
		if err := tx.Create(reg); err != nil {
			if errors.Is(err, types.ErrAddressInUse) {
				return types.ErrAlreadyInitialized
			}
			return err
		}
		return nil
	}, zap.String("authority", signer))
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Registry returns the registry record.
func (p *Program) Registry(ctx context.Context) (*types.Registry, error) {
	var reg types.Registry
	if err := p.ledger.View(ctx, func(tx types.Tx) error {
		return loadRegistry(tx, &reg)
	}); err != nil {
		return nil, err
	}
	return &reg, nil
}

// loadRegistry reads the registry, reporting a missing one as ErrNotFound.
func loadRegistry(tx types.Tx, reg *types.Registry) error {
	if err := tx.Get(types.RegistryAddress(), reg); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("registry not initialized: %w", types.ErrNotFound)
		}
		return err
	}
	return nil
}
