package program

import (
	"math"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// Input limits.
const (
	MaxContentHashLen = 196
	MaxNFTMints       = 20
	MaxMintAddressLen = 64
)

// checkID validates an identifier used as an address seed.
func checkID(id string) error {
	if id == "" || len(id) > types.MaxSeedLen {
		return types.ErrInvalidParameters
	}
	return nil
}

func checkHash(hash string) error {
	if hash == "" || len(hash) > MaxContentHashLen {
		return types.ErrInvalidParameters
	}
	return nil
}

// checkPrice converts a signed price into base units.
func checkPrice(price int64) (uint64, error) {
	if price < 0 {
		return 0, types.ErrInvalidParameters
	}
	return uint64(price), nil
}

// checkCapacity converts a signed license capacity into the stored width.
func checkCapacity(n int64) (uint32, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, types.ErrInvalidParameters
	}
	return uint32(n), nil
}

func checkMints(mints []string) error {
	if len(mints) > MaxNFTMints {
		return types.ErrInvalidParameters
	}
	for _, m := range mints {
		if m == "" || len(m) > MaxMintAddressLen {
			return types.ErrInvalidParameters
		}
	}
	return nil
}
