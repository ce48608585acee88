// Config loading for the drm CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/internal/token"
	"github.com/mesh-intelligence/drm/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "DRM"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyRedisAddr     = "redis.addr"
	cfgKeyRedisPrefix   = "redis.prefix"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
	cfgKeyLicenseTerm   = "license.term"
	cfgKeyTokenDecimals = "token.decimals"
	cfgKeyHTTPAddr      = "http.addr"
	cfgKeyJWTSecret     = "http.jwt_secret"
	cfgKeySigner        = "signer"

	defaultHTTPAddr = ":8080"
	defaultLogLevel = "warn"
)

// envKeys may be overridden by DRM_-prefixed environment variables, e.g.
// DRM_REDIS_ADDR. data_dir is resolved by the paths package instead, so
// that config.yaml outranks DRM_DATA_DIR.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyRedisAddr,
	cfgKeyRedisPrefix,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyLicenseTerm,
	cfgKeyTokenDecimals,
	cfgKeyHTTPAddr,
	cfgKeyJWTSecret,
	cfgKeySigner,
}

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend string         `yaml:"backend"`
	DataDir string         `yaml:"data_dir,omitempty"`
	Redis   redisSection   `yaml:"redis"`
	Log     logSection     `yaml:"log"`
	License licenseSection `yaml:"license"`
	Token   tokenSection   `yaml:"token"`
	HTTP    httpSection    `yaml:"http"`
}

type redisSection struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

type logSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type licenseSection struct {
	Term string `yaml:"term"`
}

type tokenSection struct {
	Decimals int32 `yaml:"decimals"`
}

type httpSection struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend: types.BackendSQLite,
		Redis:   redisSection{Prefix: types.DefaultRedisPrefix},
		Log:     logSection{Level: defaultLogLevel, Format: "console"},
		License: licenseSection{Term: program.DefaultLicenseTerm.String()},
		Token:   tokenSection{Decimals: token.DefaultDecimals},
		HTTP:    httpSection{Addr: defaultHTTPAddr},
	}
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyRedisPrefix, def.Redis.Prefix)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)
	v.SetDefault(cfgKeyLicenseTerm, def.License.Term)
	v.SetDefault(cfgKeyTokenDecimals, def.Token.Decimals)
	v.SetDefault(cfgKeyHTTPAddr, def.HTTP.Addr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	def := defaultConfigFile()
	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append([]byte("# drm configuration\n"), data...)
	return os.WriteFile(path, data, 0o644)
}
