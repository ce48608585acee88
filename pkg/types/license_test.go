package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLicenseRevoke(t *testing.T) {
	now := time.Now().UTC()
	l := &License{LicenseID: "lic1", Owner: "buyer", IsActive: true}

	require.NoError(t, l.Revoke(now))
	assert.False(t, l.IsActive)
	require.NotNil(t, l.RevokedAt)
	assert.Equal(t, now, *l.RevokedAt)

	later := now.Add(time.Hour)
	assert.ErrorIs(t, l.Revoke(later), ErrAlreadyRevoked)
	assert.Equal(t, now, *l.RevokedAt, "second revoke must not move RevokedAt")
}

func TestLicenseCheckAccess(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		license License
		caller  string
		wantErr error
	}{
		{
			name:    "owner of active license",
			license: License{Owner: "buyer", IsActive: true, ExpiresAt: &future},
			caller:  "buyer",
		},
		{
			name:    "owner of license without expiry",
			license: License{Owner: "buyer", IsActive: true},
			caller:  "buyer",
		},
		{
			name:    "third party on active license",
			license: License{Owner: "buyer", IsActive: true},
			caller:  "mallory",
			wantErr: ErrUnauthorized,
		},
		{
			name:    "third party on revoked license still unauthorized",
			license: License{Owner: "buyer", IsActive: false},
			caller:  "mallory",
			wantErr: ErrUnauthorized,
		},
		{
			name:    "empty caller",
			license: License{Owner: "buyer", IsActive: true},
			caller:  "",
			wantErr: ErrUnauthorized,
		},
		{
			name:    "owner of revoked license",
			license: License{Owner: "buyer", IsActive: false},
			caller:  "buyer",
			wantErr: ErrLicenseInactive,
		},
		{
			name:    "owner of expired license",
			license: License{Owner: "buyer", IsActive: true, ExpiresAt: &past},
			caller:  "buyer",
			wantErr: ErrLicenseExpired,
		},
		{
			name:    "expiry instant is exclusive",
			license: License{Owner: "buyer", IsActive: true, ExpiresAt: &now},
			caller:  "buyer",
			wantErr: ErrLicenseExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.license.CheckAccess(tt.caller, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
