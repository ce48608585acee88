package program

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// PurchaseLicense sells buyer a license to contentID under licenseID.
// The price transfer, the new license, the content's license count, and the
// registry counter commit together or not at all.
func (p *Program) PurchaseLicense(ctx context.Context, buyer, contentID, licenseID string) (*types.License, error) {
	if buyer == "" {
		return nil, types.ErrUnauthorized
	}
	if err := checkID(contentID); err != nil {
		return nil, err
	}
	if err := checkID(licenseID); err != nil {
		return nil, err
	}

	var license *types.License
	err := p.update(ctx, "purchase_license", func(tx types.Tx) error {
		var reg types.Registry
		if err := loadRegistry(tx, &reg); err != nil {
			return err
		}
		var content types.Content
		if err := loadContent(tx, contentID, &content); err != nil {
			return err
		}
		if err := content.Reserve(); err != nil {
			return err
		}
		if err := tx.Get(types.LicenseAddress(licenseID), &types.License{}); err == nil {
			return types.ErrDuplicateLicense
		} else if !errors.Is(err, types.ErrNotFound) {
			return err
		}

		if err := p.payments.Transfer(tx, buyer, content.Authority, content.Price); err != nil {
			return err
		}

		now := p.timestamp()
		lic := &types.License{
			Authority:   content.Authority,
			Owner:       buyer,
			Content:     content.Address(),
			LicenseID:   licenseID,
			IsActive:    true,
			PurchasedAt: now,
		}
		if p.licenseTerm > 0 {
			expires := now.Add(p.licenseTerm)
			lic.ExpiresAt = &expires
		}
		if err := tx.Create(lic); err != nil {
			if errors.Is(err, types.ErrAddressInUse) {
				return types.ErrDuplicateLicense
			}
			return err
		}

		content.UpdatedAt = now
		if err := tx.Put(&content); err != nil {
			return err
		}
		reg.TotalLicenses++
		if err := tx.Put(&reg); err != nil {
			return err
		}
		license = lic
		return nil
	},
		zap.String("license_id", licenseID),
		zap.String("content_id", contentID),
		zap.String("buyer", buyer),
	)
	if err != nil {
		return nil, err
	}
	return license, nil
}

// VerifyAccess checks that caller owns licenseID and that the license is
// active and unexpired. Ownership is checked first: a non-owner always gets
// ErrUnauthorized. VerifyAccess never writes.
func (p *Program) VerifyAccess(ctx context.Context, caller, licenseID string) (*types.License, error) {
	var license types.License
	err := p.ledger.View(ctx, func(tx types.Tx) error {
		if err := loadLicense(tx, licenseID, &license); err != nil {
			return err
		}
		return license.CheckAccess(caller, p.now())
	})
	if err != nil {
		p.logger.Debug("access denied",
			zap.String("license_id", licenseID),
			zap.String("caller", caller),
			zap.Error(err),
		)
		return nil, err
	}
	return &license, nil
}

// RevokeLicense deactivates licenseID and frees its slot on the content.
// Only the content authority may revoke; revoking twice fails with
// ErrAlreadyRevoked.
func (p *Program) RevokeLicense(ctx context.Context, signer, licenseID string) (*types.License, error) {
	if err := checkID(licenseID); err != nil {
		return nil, err
	}

	var license types.License
	err := p.update(ctx, "revoke_license", func(tx types.Tx) error {
		if err := loadLicense(tx, licenseID, &license); err != nil {
			return err
		}
		var content types.Content
		if err := tx.Get(license.Content, &content); err != nil {
			return fmt.Errorf("content of license %q: %w", licenseID, err)
		}
		if err := requireSigner(signer, content.Authority); err != nil {
			return err
		}

		now := p.timestamp()
		if err := license.Revoke(now); err != nil {
			return err
		}
		content.Release()
		content.UpdatedAt = now

		if err := tx.Put(&license); err != nil {
			return err
		}
		return tx.Put(&content)
	}, zap.String("license_id", licenseID), zap.String("signer", signer))
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// License returns the license record for licenseID.
func (p *Program) License(ctx context.Context, licenseID string) (*types.License, error) {
	var license types.License
	if err := p.ledger.View(ctx, func(tx types.Tx) error {
		return loadLicense(tx, licenseID, &license)
	}); err != nil {
		return nil, err
	}
	return &license, nil
}

// ListLicenses returns license records matching filter, oldest first.
func (p *Program) ListLicenses(ctx context.Context, filter types.Filter) ([]*types.License, error) {
	return fetch[*types.License](ctx, p.ledger, types.KindLicense, filter)
}

func loadLicense(tx types.Tx, licenseID string, dst *types.License) error {
	if err := tx.Get(types.LicenseAddress(licenseID), dst); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("license %q: %w", licenseID, types.ErrNotFound)
		}
		return err
	}
	return nil
}
