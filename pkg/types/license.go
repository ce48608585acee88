package types

import "time"

// License grants one wallet access to one content item.
// A license starts active; Revoke is the only transition and it is terminal.
type License struct {
	Authority   string     `json:"authority"`
	Owner       string     `json:"owner"`
	Content     Address    `json:"content"`
	LicenseID   string     `json:"license_id"`
	IsActive    bool       `json:"is_active"`
	PurchasedAt time.Time  `json:"purchased_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Kind implements Record.
func (l *License) Kind() string { return KindLicense }

// Address implements Record.
func (l *License) Address() Address { return LicenseAddress(l.LicenseID) }

// Revoke deactivates the license.
// Returns ErrAlreadyRevoked if the license is already inactive.
func (l *License) Revoke(at time.Time) error {
	if !l.IsActive {
		return ErrAlreadyRevoked
	}
	l.IsActive = false
	l.RevokedAt = &at
	return nil
}

// CheckAccess reports whether caller may use the license at time now.
// Ownership is checked first, so a non-owner always gets ErrUnauthorized
// whatever the license state.
func (l *License) CheckAccess(caller string, now time.Time) error {
	if caller == "" || l.Owner != caller {
		return ErrUnauthorized
	}
	if !l.IsActive {
		return ErrLicenseInactive
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return ErrLicenseExpired
	}
	return nil
}
