package token

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// DefaultDecimals is the mint precision used when none is configured.
const DefaultDecimals int32 = 9

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a human amount such as "1.5" into base units for a
// mint with the given decimals. Negative values, values finer than the mint
// precision, and values above math.MaxInt64 base units fail with
// ErrInvalidParameters.
func ParseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, types.ErrInvalidParameters
	}
	if d.IsNegative() {
		return 0, types.ErrInvalidParameters
	}
	units := d.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, types.ErrInvalidParameters
	}
	if units.GreaterThan(maxAmount) {
		return 0, types.ErrInvalidParameters
	}
	return uint64(units.IntPart()), nil
}

// FormatAmount renders base units as a human amount, trimming trailing zeros.
func FormatAmount(units uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -decimals).String()
}
