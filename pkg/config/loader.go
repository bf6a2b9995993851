package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".xpfang"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for xpfang settings.
const envPrefix = "XPFANG"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default configuration values.
const (
	DefaultBaseURL      = "https://learn.reboot01.com"
	DefaultTimeout      = 30 * time.Second
	DefaultTheme        = "dark"
	DefaultFormat       = "text"
	DefaultOutputDir    = "xpfang-report"
	DefaultServeAddr    = "127.0.0.1:8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultLogLevel     = "info"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("api.base_url", DefaultBaseURL)
	viperCfg.SetDefault("api.timeout", DefaultTimeout)

	viperCfg.SetDefault("session.token_file", "")

	viperCfg.SetDefault("policies.ranking", "")
	viperCfg.SetDefault("policies.pass", "")
	viperCfg.SetDefault("policies.nulls", "")
	viperCfg.SetDefault("policies.zero", "")
	viperCfg.SetDefault("policies.top_grades_limit", 0)

	viperCfg.SetDefault("render.theme", DefaultTheme)
	viperCfg.SetDefault("render.output", DefaultOutputDir)
	viperCfg.SetDefault("render.format", DefaultFormat)

	viperCfg.SetDefault("serve.addr", DefaultServeAddr)
	viperCfg.SetDefault("serve.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("serve.write_timeout", DefaultWriteTimeout)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}
