// This file maps license records to and from rows of the licenses table.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func licenseValues(l *types.License) []any {
	return []any{
		string(l.Address()),
		l.LicenseID,
		l.Authority,
		l.Owner,
		string(l.Content),
		boolInt(l.IsActive),
		formatTime(l.PurchasedAt),
		formatNullTime(l.ExpiresAt),
		formatNullTime(l.RevokedAt),
	}
}

func scanLicense(row rowScanner, l *types.License) error {
	var (
		addr, content        string
		isActive             int64
		purchasedAt          string
		expiresAt, revokedAt sql.NullString
	)
	if err := row.Scan(
		&addr, &l.LicenseID, &l.Authority, &l.Owner, &content,
		&isActive, &purchasedAt, &expiresAt, &revokedAt,
	); err != nil {
		return err
	}
	purchased, err := parseTime(purchasedAt)
	if err != nil {
		return fmt.Errorf("parsing purchased_at: %w", err)
	}
	expires, err := parseNullTime(expiresAt)
	if err != nil {
		return fmt.Errorf("parsing expires_at: %w", err)
	}
	revoked, err := parseNullTime(revokedAt)
	if err != nil {
		return fmt.Errorf("parsing revoked_at: %w", err)
	}
	l.Content = types.Address(content)
	l.IsActive = isActive != 0
	l.PurchasedAt = purchased
	l.ExpiresAt = expires
	l.RevokedAt = revoked
	return nil
}
