package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentReserve(t *testing.T) {
	tests := []struct {
		name        string
		active      bool
		current     uint32
		max         uint32
		wantErr     error
		wantCurrent uint32
	}{
		{
			name:        "reserve on empty content",
			active:      true,
			current:     0,
			max:         2,
			wantCurrent: 1,
		},
		{
			name:        "reserve last slot",
			active:      true,
			current:     1,
			max:         2,
			wantCurrent: 2,
		},
		{
			name:        "full content rejected",
			active:      true,
			current:     2,
			max:         2,
			wantErr:     ErrCapacityExceeded,
			wantCurrent: 2,
		},
		{
			name:        "zero capacity rejected",
			active:      true,
			max:         0,
			wantErr:     ErrCapacityExceeded,
			wantCurrent: 0,
		},
		{
			name:        "inactive content rejected before capacity",
			active:      false,
			current:     2,
			max:         2,
			wantErr:     ErrContentInactive,
			wantCurrent: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Content{IsActive: tt.active, CurrentLicenses: tt.current, MaxLicenses: tt.max}

			err := c.Reserve()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCurrent, c.CurrentLicenses)
		})
	}
}

func TestContentReleaseFloorsAtZero(t *testing.T) {
	c := &Content{CurrentLicenses: 1, MaxLicenses: 1}
	c.Release()
	assert.Equal(t, uint32(0), c.CurrentLicenses)
	c.Release()
	assert.Equal(t, uint32(0), c.CurrentLicenses, "release must not underflow")
}

func TestContentSetMaxLicenses(t *testing.T) {
	c := &Content{CurrentLicenses: 3, MaxLicenses: 10}

	assert.ErrorIs(t, c.SetMaxLicenses(2), ErrInvalidCapacity)
	assert.Equal(t, uint32(10), c.MaxLicenses, "capacity unchanged on error")

	assert.NoError(t, c.SetMaxLicenses(3))
	assert.Equal(t, uint32(3), c.MaxLicenses)
}
