package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
		want     uint64
		wantErr  bool
	}{
		{"0.1", 9, 100000000, false},
		{"1", 9, 1000000000, false},
		{"1.5", 2, 150, false},
		{"42", 0, 42, false},
		{"0", 9, 0, false},
		{"-1", 9, 0, true},
		{"0.001", 2, 0, true},
		{"abc", 9, 0, true},
		{"9223372036854775808", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, tt.decimals)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidParameters)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.1", FormatAmount(100000000, 9))
	assert.Equal(t, "1.5", FormatAmount(150, 2))
	assert.Equal(t, "0", FormatAmount(0, 9))
	assert.Equal(t, "42", FormatAmount(42, 0))
}
