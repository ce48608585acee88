// Output helpers shared by drm commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/token"
	"github.com/mesh-intelligence/drm/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// emit writes v as indented JSON in --json mode, otherwise calls human.
func (a *app) emit(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(out)
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func printRegistry(w io.Writer, reg *types.Registry) {
	fmt.Fprintf(w, "Authority:      %s\n", reg.Authority)
	fmt.Fprintf(w, "Total content:  %d\n", reg.TotalContent)
	fmt.Fprintf(w, "Total licenses: %d\n", reg.TotalLicenses)
	fmt.Fprintf(w, "Total packages: %d\n", reg.TotalPackages)
	fmt.Fprintf(w, "Created:        %s\n", formatTime(&reg.CreatedAt))
}

func printContent(w io.Writer, c *types.Content, decimals int32) {
	fmt.Fprintf(w, "Content:   %s\n", c.ContentID)
	fmt.Fprintf(w, "Hash:      %s\n", c.ContentHash)
	fmt.Fprintf(w, "Authority: %s\n", c.Authority)
	fmt.Fprintf(w, "Price:     %s\n", token.FormatAmount(c.Price, decimals))
	fmt.Fprintf(w, "Licenses:  %d/%d\n", c.CurrentLicenses, c.MaxLicenses)
	fmt.Fprintf(w, "Active:    %t\n", c.IsActive)
	fmt.Fprintf(w, "Updated:   %s\n", formatTime(&c.UpdatedAt))
}

func printLicense(w io.Writer, l *types.License) {
	fmt.Fprintf(w, "License:   %s\n", l.LicenseID)
	fmt.Fprintf(w, "Owner:     %s\n", l.Owner)
	fmt.Fprintf(w, "Authority: %s\n", l.Authority)
	fmt.Fprintf(w, "Content:   %s\n", l.Content)
	fmt.Fprintf(w, "Active:    %t\n", l.IsActive)
	fmt.Fprintf(w, "Purchased: %s\n", formatTime(&l.PurchasedAt))
	fmt.Fprintf(w, "Expires:   %s\n", formatTime(l.ExpiresAt))
	if l.RevokedAt != nil {
		fmt.Fprintf(w, "Revoked:   %s\n", formatTime(l.RevokedAt))
	}
}

func printPackage(w io.Writer, p *types.Package) {
	fmt.Fprintf(w, "Package:   %s\n", p.PackageName)
	fmt.Fprintf(w, "Authority: %s\n", p.Authority)
	fmt.Fprintf(w, "DRM type:  %s\n", p.DRMType)
	fmt.Fprintf(w, "NFT mints: %d\n", len(p.NFTMintAddresses))
	for _, m := range p.NFTMintAddresses {
		fmt.Fprintf(w, "  %s\n", m)
	}
	if p.TokenMintAddress != nil {
		fmt.Fprintf(w, "Token:     %s\n", *p.TokenMintAddress)
	}
	if p.MinTokenAmount != nil {
		fmt.Fprintf(w, "Minimum:   %d\n", *p.MinTokenAmount)
	}
	fmt.Fprintf(w, "Active:    %t\n", p.IsActive)
}
