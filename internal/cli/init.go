package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/pkg/drm"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize drm storage",
		Long:  "Create the configuration directory and config.yaml, then attach and detach the configured ledger backend.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.ledgerConfig()
			if err != nil {
				return err
			}
			ledger, err := drm.NewLedger(cfg)
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			if err := ledger.Detach(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			location := cfg.DataDir
			if location == "" {
				location = cfg.Redis.Addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "drm initialized (%s backend at %s)\n", cfg.Backend, location)
			return nil
		},
	}
}
