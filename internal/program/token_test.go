package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestMintTokens(t *testing.T) {
	eachBackend(t, func(t *testing.T, newLedger ledgerFactory) {
		f := newFixture(t, newLedger)

		_, err := f.p.MintTokens(f.ctx, auth, buyer, 10)
		assert.ErrorIs(t, err, types.ErrNotFound, "registry required")

		_, err = f.p.Initialize(f.ctx, auth)
		require.NoError(t, err)

		bal, err := f.p.MintTokens(f.ctx, auth, buyer, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), bal)
		bal, err = f.p.MintTokens(f.ctx, auth, buyer, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), bal)

		_, err = f.p.MintTokens(f.ctx, buyer, buyer, 10)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		_, err = f.p.MintTokens(f.ctx, auth, buyer, 0)
		assert.ErrorIs(t, err, types.ErrInvalidParameters)

		accounts, err := f.p.ListTokenAccounts(f.ctx, nil)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, uint64(15), accounts[0].Balance)
	})
}
