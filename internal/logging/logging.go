// Package logging builds the structured zap logger shared by the CLI, the
// HTTP server, and the instruction handlers.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ErrUnknownFormat is returned for a Format other than json or console.
var ErrUnknownFormat = errors.New("unknown log format")

// Config selects the log level and encoding.
type Config struct {
	Level  string // debug, info, warn, error; empty means info
	Format string // json or console; empty means json
}

// New builds a logger writing to stderr. JSON output uses zap's production
// profile; console output uses the development profile.
func New(cfg Config) (*zap.Logger, error) {
	level, err := resolveLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatJSON:
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
	zc.Level = level
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func resolveLevel(s string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(s) == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}
	var parsed zapcore.Level
	if err := parsed.Set(s); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}
