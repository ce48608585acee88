package program

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// RegisterPackageArgs are the inputs to RegisterPackage.
type RegisterPackageArgs struct {
	Name             string
	DRMType          string
	NFTMintAddresses []string
	TokenMintAddress *string
	MinTokenAmount   *int64
}

// UpdatePackageArgs lists the package fields UpdatePackage may overwrite.
// Nil fields are left unchanged; a non-nil empty NFTMintAddresses clears the
// list. ClearTokenMint and ClearMinTokenAmount remove the optional token gate
// fields and cannot be combined with a new value for the same field.
type UpdatePackageArgs struct {
	DRMType             *string
	NFTMintAddresses    []string
	TokenMintAddress    *string
	ClearTokenMint      bool
	MinTokenAmount      *int64
	ClearMinTokenAmount bool
	IsActive            *bool
}

// RegisterPackage records an application package and the holdings that gate
// it. signer becomes the package authority.
func (p *Program) RegisterPackage(ctx context.Context, signer string, args RegisterPackageArgs) (*types.Package, error) {
	if signer == "" {
		return nil, types.ErrUnauthorized
	}
	if err := checkID(args.Name); err != nil {
		return nil, err
	}
	if !types.ValidDRMType(args.DRMType) {
		return nil, types.ErrInvalidParameters
	}
	if err := checkMints(args.NFTMintAddresses); err != nil {
		return nil, err
	}
	if args.TokenMintAddress != nil {
		if err := checkMints([]string{*args.TokenMintAddress}); err != nil {
			return nil, err
		}
	}
	minAmount, err := checkMinAmount(args.MinTokenAmount)
	if err != nil {
		return nil, err
	}

	now := p.timestamp()
	mints := append([]string{}, args.NFTMintAddresses...)
	pkg := &types.Package{
		Authority:        signer,
		PackageName:      args.Name,
		DRMType:          args.DRMType,
		NFTMintAddresses: mints,
		TokenMintAddress: args.TokenMintAddress,
		MinTokenAmount:   minAmount,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = p.update(ctx, "register_package", func(tx types.Tx) error {
		var reg types.Registry
		if err := loadRegistry(tx, &reg); err != nil {
			return err
		}
		if err := tx.Create(pkg); err != nil {
			if errors.Is(err, types.ErrAddressInUse) {
				return types.ErrDuplicatePackage
			}
			return err
		}
		reg.TotalPackages++
		return tx.Put(&reg)
	},
		zap.String("package", args.Name),
		zap.String("authority", signer),
		zap.String("drm_type", args.DRMType),
	)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// UpdatePackage overwrites the supplied fields of the named package. Only
// the package authority may update.
func (p *Program) UpdatePackage(ctx context.Context, signer, name string, args UpdatePackageArgs) (*types.Package, error) {
	if err := checkID(name); err != nil {
		return nil, err
	}
	if args.DRMType != nil && !types.ValidDRMType(*args.DRMType) {
		return nil, types.ErrInvalidParameters
	}
	if (args.ClearTokenMint && args.TokenMintAddress != nil) || (args.ClearMinTokenAmount && args.MinTokenAmount != nil) {
		return nil, fmt.Errorf("cannot both set and clear a field: %w", types.ErrInvalidParameters)
	}
	if err := checkMints(args.NFTMintAddresses); err != nil {
		return nil, err
	}
	if args.TokenMintAddress != nil {
		if err := checkMints([]string{*args.TokenMintAddress}); err != nil {
			return nil, err
		}
	}
	minAmount, err := checkMinAmount(args.MinTokenAmount)
	if err != nil {
		return nil, err
	}

	var pkg types.Package
	err = p.update(ctx, "update_package", func(tx types.Tx) error {
		if err := loadPackage(tx, name, &pkg); err != nil {
			return err
		}
		if err := requireSigner(signer, pkg.Authority); err != nil {
			return err
		}
		if args.DRMType != nil {
			pkg.DRMType = *args.DRMType
		}
		if args.NFTMintAddresses != nil {
			pkg.NFTMintAddresses = append([]string{}, args.NFTMintAddresses...)
		}
		if args.TokenMintAddress != nil {
			pkg.TokenMintAddress = args.TokenMintAddress
		}
		if minAmount != nil {
			pkg.MinTokenAmount = minAmount
		}
		if args.IsActive != nil {
			pkg.IsActive = *args.IsActive
		}
		pkg.UpdatedAt = p.timestamp()
		return tx.Put(&pkg)
	}, zap.String("package", name), zap.String("signer", signer))
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Package returns the package record for name.
func (p *Program) Package(ctx context.Context, name string) (*types.Package, error) {
	var pkg types.Package
	if err := p.ledger.View(ctx, func(tx types.Tx) error {
		return loadPackage(tx, name, &pkg)
	}); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackages returns package records matching filter, oldest first.
func (p *Program) ListPackages(ctx context.Context, filter types.Filter) ([]*types.Package, error) {
	return fetch[*types.Package](ctx, p.ledger, types.KindPackage, filter)
}

func loadPackage(tx types.Tx, name string, dst *types.Package) error {
	if err := tx.Get(types.PackageAddress(name), dst); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("package %q: %w", name, types.ErrNotFound)
		}
		return err
	}
	return nil
}

func checkMinAmount(n *int64) (*uint64, error) {
	if n == nil {
		return nil, nil
	}
	if *n < 0 {
		return nil, types.ErrInvalidParameters
	}
	v := uint64(*n)
	return &v, nil
}
