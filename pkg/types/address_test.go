package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddressDeterministic(t *testing.T) {
	a := ContentAddress("c1")
	b := ContentAddress("c1")
	assert.Equal(t, a, b, "same inputs must yield the same address")

	_, err := uuid.Parse(a.String())
	require.NoError(t, err, "address should be a canonical UUID")
}

func TestDeriveAddressSeparatesKinds(t *testing.T) {
	addrs := map[Address]string{}
	for name, addr := range map[string]Address{
		"content":       ContentAddress("x"),
		"license":       LicenseAddress("x"),
		"package":       PackageAddress("x"),
		"token_account": TokenAccountAddress("x"),
		"registry":      RegistryAddress(),
	} {
		prev, dup := addrs[addr]
		assert.False(t, dup, "%s collides with %s", name, prev)
		addrs[addr] = name
	}
}

func TestDeriveAddressSeedBoundary(t *testing.T) {
	// The separator keeps ("ab", "c") and ("a", "bc") apart.
	assert.NotEqual(t, DeriveAddress("ab", "c"), DeriveAddress("a", "bc"))
}

func TestRecordAddresses(t *testing.T) {
	assert.Equal(t, RegistryAddress(), (&Registry{}).Address())
	assert.Equal(t, ContentAddress("c1"), (&Content{ContentID: "c1"}).Address())
	assert.Equal(t, LicenseAddress("lic1"), (&License{LicenseID: "lic1"}).Address())
	assert.Equal(t, PackageAddress("app"), (&Package{PackageName: "app"}).Address())
	assert.Equal(t, TokenAccountAddress("w"), (&TokenAccount{Owner: "w"}).Address())
}

func TestNewRecord(t *testing.T) {
	for _, kind := range StandardKinds {
		rec, err := NewRecord(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, rec.Kind())
	}

	_, err := NewRecord("invoices")
	assert.ErrorIs(t, err, ErrKindNotFound)
}
