// Content commands for the drm CLI.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/internal/token"
	"github.com/mesh-intelligence/drm/pkg/types"
)

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Register and manage protected content",
	}
	cmd.AddCommand(newContentCreateCmd(a))
	cmd.AddCommand(newContentUpdateCmd(a))
	cmd.AddCommand(newContentGetCmd(a))
	cmd.AddCommand(newContentListCmd(a))
	return cmd
}

// parsePrice converts a human amount flag into base units.
func (a *app) parsePrice(s string) (int64, error) {
	units, err := token.ParseAmount(s, a.decimals())
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return int64(units), nil
}

// addActiveFilter sets the is_active filter from an optional --active value.
func addActiveFilter(filter types.Filter, raw string) error {
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return usagef("--active must be true or false, got %q", raw)
	}
	filter[types.FilterIsActive] = b
	return nil
}

func newContentCreateCmd(a *app) *cobra.Command {
	var (
		hash        string
		price       string
		maxLicenses int64
	)
	cmd := &cobra.Command{
		Use:   "create <content-id>",
		Short: "Register content for sale",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hash == "" || !cmd.Flags().Changed("max-licenses") {
				return usagef("--hash and --max-licenses are required")
			}
			signer, err := a.signer()
			if err != nil {
				return err
			}
			units, err := a.parsePrice(price)
			if err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				c, err := p.CreateContent(ctx, signer, program.CreateContentArgs{
					ContentID:   args[0],
					ContentHash: hash,
					Price:       units,
					MaxLicenses: maxLicenses,
				})
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w io.Writer) {
					fmt.Fprintf(w, "Created content %s\n", c.ContentID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "content hash, e.g. an IPFS CID")
	cmd.Flags().StringVar(&price, "price", "0", "license price in tokens")
	cmd.Flags().Int64Var(&maxLicenses, "max-licenses", 0, "maximum concurrently active licenses")
	return cmd
}

func newContentUpdateCmd(a *app) *cobra.Command {
	var (
		price       string
		maxLicenses int64
		active      bool
	)
	cmd := &cobra.Command{
		Use:   "update <content-id>",
		Short: "Change the price, capacity, or active flag of content",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			var upd program.UpdateContentArgs
			flags := cmd.Flags()
			if flags.Changed("price") {
				units, err := a.parsePrice(price)
				if err != nil {
					return err
				}
				upd.Price = &units
			}
			if flags.Changed("max-licenses") {
				upd.MaxLicenses = &maxLicenses
			}
			if flags.Changed("active") {
				upd.IsActive = &active
			}
			if upd.Price == nil && upd.MaxLicenses == nil && upd.IsActive == nil {
				return usagef("nothing to update: pass --price, --max-licenses, or --active")
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				c, err := p.UpdateContent(ctx, signer, args[0], upd)
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w io.Writer) { printContent(w, c, a.decimals()) })
			})
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "new license price in tokens")
	cmd.Flags().Int64Var(&maxLicenses, "max-licenses", 0, "new capacity")
	cmd.Flags().BoolVar(&active, "active", true, "whether new licenses may be sold")
	return cmd
}

func newContentGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <content-id>",
		Short: "Display a content record",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				c, err := p.Content(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(cmd, c, func(w io.Writer) { printContent(w, c, a.decimals()) })
			})
		},
	}
}

func newContentListCmd(a *app) *cobra.Command {
	var authority, active string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content records",
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
				contents, err := p.ListContents(ctx, filter)
				if err != nil {
					return err
				}
				return a.emit(cmd, contents, func(w io.Writer) {
					fmt.Fprintf(w, "%-32s  %-12s  %-9s  %s\n", "CONTENT", "PRICE", "LICENSES", "ACTIVE")
					for _, c := range contents {
						fmt.Fprintf(w, "%-32s  %-12s  %-9s  %t\n",
							c.ContentID,
							token.FormatAmount(c.Price, a.decimals()),
							fmt.Sprintf("%d/%d", c.CurrentLicenses, c.MaxLicenses),
							c.IsActive,
						)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "only content owned by this authority")
	cmd.Flags().StringVar(&active, "active", "", "filter by active flag (true or false)")
	return cmd
}
