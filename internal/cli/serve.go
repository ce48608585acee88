package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the licensing API over HTTP",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.GetString(cfgKeyHTTPAddr)
			}

			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			handler := httpapi.NewHandler(s.program, auth, s.logger, a.decimals())
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(handler),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				s.logger.Info("http server listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			s.logger.Info("http server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr from config)")
	return cmd
}
