// Package registry commands for the drm CLI.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/pkg/types"
)

func newPackageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Register application packages and their gating holdings",
	}
	cmd.AddCommand(newPackageRegisterCmd(a))
	cmd.AddCommand(newPackageUpdateCmd(a))
	cmd.AddCommand(newPackageGetCmd(a))
	cmd.AddCommand(newPackageListCmd(a))
	return cmd
}

// packageFlags are shared by register and update.
type packageFlags struct {
	drmType   string
	nftMints  []string
	tokenMint string
	minAmount int64
	active    bool

	clearTokenMint bool
	clearMinAmount bool
}

func (f *packageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.drmType, "type", "", "DRM type: nft, token, or mixed")
	cmd.Flags().StringSliceVar(&f.nftMints, "nft-mint", nil, "NFT mint address (repeatable)")
	cmd.Flags().StringVar(&f.tokenMint, "token-mint", "", "token mint address")
	cmd.Flags().Int64Var(&f.minAmount, "min-amount", 0, "minimum token amount in base units")
}

func newPackageRegisterCmd(a *app) *cobra.Command {
	var f packageFlags
	cmd := &cobra.Command{
		Use:   "register <package-name>",
		Short: "Register an application package",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			reg := program.RegisterPackageArgs{
				Name:             args[0],
				DRMType:          f.drmType,
				NFTMintAddresses: f.nftMints,
			}
			if cmd.Flags().Changed("token-mint") {
				reg.TokenMintAddress = &f.tokenMint
			}
			if cmd.Flags().Changed("min-amount") {
				reg.MinTokenAmount = &f.minAmount
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				pkg, err := p.RegisterPackage(ctx, signer, reg)
				if err != nil {
					return err
				}
				return a.emit(cmd, pkg, func(w io.Writer) {
					fmt.Fprintf(w, "Registered package %s (%s)\n", pkg.PackageName, pkg.DRMType)
				})
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newPackageUpdateCmd(a *app) *cobra.Command {
	var f packageFlags
	cmd := &cobra.Command{
		Use:   "update <package-name>",
		Short: "Change a package's DRM settings",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			var upd program.UpdatePackageArgs
			flags := cmd.Flags()
			if flags.Changed("type") {
				upd.DRMType = &f.drmType
			}
			if flags.Changed("nft-mint") {
				upd.NFTMintAddresses = append([]string{}, f.nftMints...)
			}
			if flags.Changed("token-mint") {
				upd.TokenMintAddress = &f.tokenMint
			}
			if flags.Changed("min-amount") {
				upd.MinTokenAmount = &f.minAmount
			}
			if flags.Changed("active") {
				upd.IsActive = &f.active
			}
			upd.ClearTokenMint = f.clearTokenMint
			upd.ClearMinTokenAmount = f.clearMinAmount
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				pkg, err := p.UpdatePackage(ctx, signer, args[0], upd)
				if err != nil {
					return err
				}
				return a.emit(cmd, pkg, func(w io.Writer) { printPackage(w, pkg) })
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.active, "active", true, "whether the package is active")
	cmd.Flags().BoolVar(&f.clearTokenMint, "clear-token-mint", false, "remove the token mint address")
	cmd.Flags().BoolVar(&f.clearMinAmount, "clear-min-amount", false, "remove the minimum token amount")
	return cmd
}

func newPackageGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <package-name>",
		Short: "Display a package record",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				pkg, err := p.Package(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, pkg, func(w io.Writer) { printPackage(w, pkg) })
			})
		},
	}
}

func newPackageListCmd(a *app) *cobra.Command {
	var authority, active string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered packages",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			if authority != "" {
				filter[types.FilterAuthority] = authority
			}
			if err := addActiveFilter(filter, active); err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				pkgs, err := p.ListPackages(ctx, filter)
				if err != nil {
					return err
				}
				return a.emit(cmd, pkgs, func(w io.Writer) {
					fmt.Fprintf(w, "%-32s  %-6s  %s\n", "PACKAGE", "TYPE", "ACTIVE")
					for _, pkg := range pkgs {
						fmt.Fprintf(w, "%-32s  %-6s  %t\n", pkg.PackageName, pkg.DRMType, pkg.IsActive)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "only packages owned by this authority")
	cmd.Flags().StringVar(&active, "active", "", "filter by active flag (true or false)")
	return cmd
}
