// Registry commands for the drm CLI.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/program"
)

func newInitializeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "Create the registry with the signer as its authority",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				reg, err := p.Initialize(ctx, signer)
				if err != nil {
					return err
				}
				return a.emit(cmd, reg, func(w io.Writer) {
					fmt.Fprintf(w, "Registry initialized (authority %s)\n", reg.Authority)
				})
			})
		},
	}
}

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the registry and its counters",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProgram(cmd, func(ctx context.Context, p *program.Program) error {
				reg, err := p.Registry(ctx)
				if err != nil {
					return err
				}
				return a.emit(cmd, reg, func(w io.Writer) { printRegistry(w, reg) })
			})
		},
	})
	return cmd
}
