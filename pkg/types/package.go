package types

import "time"

// DRM types a package may declare.
const (
	DRMTypeNFT   = "nft"
	DRMTypeToken = "token"
	DRMTypeMixed = "mixed"
)

// validDRMTypes is the set of recognized DRM type values.
var validDRMTypes = map[string]bool{
	DRMTypeNFT:   true,
	DRMTypeToken: true,
	DRMTypeMixed: true,
}

// ValidDRMType reports whether t is a recognized DRM type.
func ValidDRMType(t string) bool {
	return validDRMTypes[t]
}

// Package registers an application package together with the holdings that
// gate it (NFT mints, a token mint and minimum amount).
type Package struct {
	Authority        string    `json:"authority"`
	PackageName      string    `json:"package_name"`
	DRMType          string    `json:"drm_type"`
	NFTMintAddresses []string  `json:"nft_mint_addresses"`
	TokenMintAddress *string   `json:"token_mint_address,omitempty"`
	MinTokenAmount   *uint64   `json:"min_token_amount,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Kind implements Record.
func (p *Package) Kind() string { return KindPackage }

// Address implements Record.
func (p *Package) Address() Address { return PackageAddress(p.PackageName) }
