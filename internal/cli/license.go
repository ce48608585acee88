// License commands for the drm CLI.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/pkg/types"
)

func newLicenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Purchase, verify, and revoke licenses",
	}
	cmd.AddCommand(newLicensePurchaseCmd(a))
	cmd.AddCommand(newLicenseVerifyCmd(a))
	cmd.AddCommand(newLicenseRevokeCmd(a))
	cmd.AddCommand(newLicenseGetCmd(a))
	cmd.AddCommand(newLicenseListCmd(a))
	return cmd
}

func newLicensePurchaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purchase <content-id> <license-id>",
		Short: "Buy a license to content as the signer",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buyer, err := a.signer()
			if err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				lic, err := p.PurchaseLicense(ctx, buyer, args[0], args[1])
				if err != nil {
					return err
				}
				return a.emit(cmd, lic, func(w io.Writer) {
					fmt.Fprintf(w, "Purchased license %s for content %s\n", lic.LicenseID, args[0])
				})
			})
		},
	}
}

func newLicenseVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <license-id>",
		Short: "Check that the signer holds an active license",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := a.signer()
			if err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				lic, err := p.VerifyAccess(ctx, caller, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, lic, func(w io.Writer) {
					fmt.Fprintf(w, "Access granted: license %s held by %s\n", lic.LicenseID, lic.Owner)
				})
			})
		},
	}
}

func newLicenseRevokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <license-id>",
		Short: "Revoke a license as the content authority",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				lic, err := p.RevokeLicense(ctx, signer, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, lic, func(w io.Writer) {
					fmt.Fprintf(w, "Revoked license %s\n", lic.LicenseID)
				})
			})
		},
	}
}

func newLicenseGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <license-id>",
		Short: "Display a license record",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				lic, err := p.License(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, lic, func(w io.Writer) { printLicense(w, lic) })
			})
		},
	}
}

func newLicenseListCmd(a *app) *cobra.Command {
	var owner, contentID, active string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List license records",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			if owner != "" {
				filter[types.FilterOwner] = owner
			}
			if contentID != "" {
				filter[types.FilterContent] = types.ContentAddress(contentID).String()
			}
			if err := addActiveFilter(filter, active); err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				licenses, err := p.ListLicenses(ctx, filter)
				if err != nil {
					return err
				}
				return a.emit(cmd, licenses, func(w io.Writer) {
					fmt.Fprintf(w, "%-32s  %-20s  %-6s  %s\n", "LICENSE", "OWNER", "ACTIVE", "EXPIRES")
					for _, l := range licenses {
						fmt.Fprintf(w, "%-32s  %-20s  %-6t  %s\n", l.LicenseID, l.Owner, l.IsActive, formatTime(l.ExpiresAt))
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "only licenses held by this owner")
	cmd.Flags().StringVar(&contentID, "content", "", "only licenses for this content id")
	cmd.Flags().StringVar(&active, "active", "", "filter by active flag (true or false)")
	return cmd
}
