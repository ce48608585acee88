package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/drm/internal/httpapi"
)

// authenticator returns an Authenticator for the configured JWT secret.
func (a *app) authenticator() (*httpapi.Authenticator, error) {
	secret := a.cfg.GetString(cfgKeyJWTSecret)
	if secret == "" {
		return nil, usagef("http.jwt_secret is not configured (set it in config.yaml or DRM_HTTP_JWT_SECRET)")
	}
	return httpapi.NewAuthenticator(secret)
}

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
	}

	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token <identity>",
		Short: "Issue a bearer token that signs API instructions as identity",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			raw, err := auth.Issue(args[0], ttl)
			if err != nil {
				return usageError{err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	tokenCmd.Flags().DurationVar(&ttl, "ttl", httpapi.DefaultTokenTTL, "token lifetime")
	cmd.AddCommand(tokenCmd)
	return cmd
}
