package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/pkg/drm"
)

const modulePath = "github.com/mesh-intelligence/drm"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the drm version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "drm v%s\nmodule: %s\n", drm.Version, modulePath)
			return nil
		},
	}
}
