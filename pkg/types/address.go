package types

import (
	"github.com/google/uuid"
)

// Address identifies a storage slot in the ledger. Addresses are derived
// from a record kind and a stable identifier, never assigned.
type Address string

// String returns the address in its canonical textual form.
func (a Address) String() string { return string(a) }

// addressNamespace scopes every derived address to this program.
var addressNamespace = uuid.MustParse("6f1c2a44-5d1e-4b7a-9c37-2d0e8a4b9f10")

// Seeds used for address derivation.
const (
	registrySeed     = "drm_state"
	contentSeed      = "content"
	licenseSeed      = "license"
	packageSeed      = "package"
	tokenAccountSeed = "token_account"
)

// MaxSeedLen is the maximum length in bytes of an identifier used as an
// address seed (content id, license id, package name).
const MaxSeedLen = 32

// DeriveAddress maps (seed, id) to a storage address. The mapping is a pure
// function: the same inputs always yield the same address.
func DeriveAddress(seed, id string) Address {
	name := make([]byte, 0, len(seed)+1+len(id))
	name = append(name, seed...)
	name = append(name, 0)
	name = append(name, id...)
	return Address(uuid.NewSHA1(addressNamespace, name).String())
}

// RegistryAddress returns the fixed address of the singleton registry.
func RegistryAddress() Address { return DeriveAddress(registrySeed, "") }

// ContentAddress returns the address of the content record for contentID.
func ContentAddress(contentID string) Address { return DeriveAddress(contentSeed, contentID) }

// LicenseAddress returns the address of the license record for licenseID.
func LicenseAddress(licenseID string) Address { return DeriveAddress(licenseSeed, licenseID) }

// PackageAddress returns the address of the package record for name.
func PackageAddress(name string) Address { return DeriveAddress(packageSeed, name) }

// TokenAccountAddress returns the address of owner's payment token account.
func TokenAccountAddress(owner string) Address { return DeriveAddress(tokenAccountSeed, owner) }
