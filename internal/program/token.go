package program

import (
	"context"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// MintTokens credits amount payment tokens to owner. Only the registry
// authority may mint.
func (p *Program) MintTokens(ctx context.Context, signer, owner string, amount uint64) (uint64, error) {
	if owner == "" || amount == 0 {
		return 0, types.ErrInvalidParameters
	}

	var balance uint64
	err := p.update(ctx, "mint_tokens", func(tx types.Tx) error {
		var reg types.Registry
		if err := loadRegistry(tx, &reg); err != nil {
			return err
		}
		if err := requireSigner(signer, reg.Authority); err != nil {
			return err
		}
		if err := p.accounts.Mint(tx, owner, amount); err != nil {
			return err
		}
		var err error
		balance, err = p.accounts.Balance(tx, owner)
		return err
	},
		zap.String("owner", owner),
		zap.Uint64("amount", amount),
		zap.String("signer", signer),
	)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance returns owner's payment token balance; an unknown owner has zero.
func (p *Program) Balance(ctx context.Context, owner string) (uint64, error) {
	var balance uint64
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		var err error
		balance, err = p.accounts.Balance(tx, owner)
		return err
	})
	return balance, err
}

// ListTokenAccounts returns token accounts matching filter, ordered by owner.
func (p *Program) ListTokenAccounts(ctx context.Context, filter types.Filter) ([]*types.TokenAccount, error) {
	return fetch[*types.TokenAccount](ctx, p.ledger, types.KindTokenAccount, filter)
}
