package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestInitialize(t *testing.T) {
	eachBackend(t, func(t *testing.T, newLedger ledgerFactory) {
		f := newFixture(t, newLedger)

		_, err := f.p.Registry(f.ctx)
		assert.ErrorIs(t, err, types.ErrNotFound)

		reg, err := f.p.Initialize(f.ctx, auth)
		require.NoError(t, err)
		assert.Equal(t, auth, reg.Authority)
		assert.Zero(t, reg.TotalContent)
		assert.Zero(t, reg.TotalLicenses)
		assert.Equal(t, epoch, reg.CreatedAt)

		_, err = f.p.Initialize(f.ctx, auth)
		assert.ErrorIs(t, err, types.ErrAlreadyInitialized)
		_, err = f.p.Initialize(f.ctx, other)
		assert.ErrorIs(t, err, types.ErrAlreadyInitialized)

		assert.Equal(t, auth, f.registry(t).Authority)
	})
}

func TestInitialize_RequiresSigner(t *testing.T) {
	f := newFixture(t, sqliteLedger)
	_, err := f.p.Initialize(f.ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidParameters)
}

func TestRequireSigner(t *testing.T) {
	assert.NoError(t, requireSigner("a", "a"))
	assert.ErrorIs(t, requireSigner("b", "a"), types.ErrUnauthorized)
	assert.ErrorIs(t, requireSigner("", ""), types.ErrUnauthorized)
}
