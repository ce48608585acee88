// Package cli implements the drm command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/internal/logging"
	"github.com/mesh-intelligence/drm/internal/paths"
	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/pkg/drm"
	"github.com/mesh-intelligence/drm/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	signer    string
}

// app carries the state shared by one command invocation.
type app struct {
	flags rootFlags
	cfg   *viper.Viper
}

// NewRootCmd creates the top-level "drm" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "drm",
		Short: "Content licensing ledger",
		Long: "drm registers protected content, sells licenses against it, and\n" +
			"verifies access, keeping every record in a transactional ledger.",
		Version:       drm.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			a.cfg, err = loadConfig(configDir)
			return err
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.signer, "signer", "", "identity that signs instructions (default: $DRM_SIGNER)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newInitializeCmd(a))
	root.AddCommand(newRegistryCmd(a))
	root.AddCommand(newContentCmd(a))
	root.AddCommand(newLicenseCmd(a))
	root.AddCommand(newPackageCmd(a))
	root.AddCommand(newTokenCmd(a))
	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "drm:", err)
		os.Exit(exitCode(err))
	}
}

// usageError marks invalid invocations: bad flags, arguments, or missing
// inputs.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// exitCode maps err to a process exit code. Instruction rejections and
// usage mistakes are user errors; everything else is a system error.
func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &ue), types.IsRejection(err), errors.Is(err, types.ErrRetry):
		return exitUserError
	default:
		return exitSysError
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// signer returns the --signer flag or the configured signer.
func (a *app) signer() (string, error) {
	if a.flags.signer != "" {
		return a.flags.signer, nil
	}
	if s := a.cfg.GetString(cfgKeySigner); s != "" {
		return s, nil
	}
	return "", usagef("a signer is required (use --signer or DRM_SIGNER)")
}

// dataDir resolves the data directory: flag, config, env, platform default.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// ledgerConfig builds the backend configuration from flags and config.
func (a *app) ledgerConfig() (types.Config, error) {
	cfg := types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		Redis: types.RedisConfig{
			Addr:   a.cfg.GetString(cfgKeyRedisAddr),
			Prefix: a.cfg.GetString(cfgKeyRedisPrefix),
		},
	}
	if cfg.Backend == types.BackendSQLite {
		dir, err := a.dataDir()
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

func (a *app) logger() (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:  a.cfg.GetString(cfgKeyLogLevel),
		Format: a.cfg.GetString(cfgKeyLogFormat),
	})
}

func (a *app) decimals() int32 {
	return a.cfg.GetInt32(cfgKeyTokenDecimals)
}

// session is an attached ledger and the program running over it.
type session struct {
	program *program.Program
	ledger  types.Ledger
	logger  *zap.Logger
}

func (s *session) close() {
	_ = s.ledger.Detach()
	_ = s.logger.Sync()
}

// open attaches the configured ledger. The caller must close the session.
func (a *app) open() (*session, error) {
	cfg, err := a.ledgerConfig()
	if err != nil {
		return nil, err
	}
	logger, err := a.logger()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	ledger, err := drm.NewLedger(cfg)
	if err != nil {
		return nil, err
	}
	p := program.New(ledger,
		program.WithLogger(logger),
		program.WithLicenseTerm(a.cfg.GetDuration(cfgKeyLicenseTerm)),
	)
	return &session{program: p, ledger: ledger, logger: logger}, nil
}

// withProgram opens a session, runs fn, and closes the session.
func (a *app) withProgram(cmd *cobra.Command, fn func(ctx context.Context, p *program.Program) error) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer s.close()
	return fn(cmd.Context(), s.program)
}
