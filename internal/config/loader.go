package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jwtly10/litpage/render"
)

const (
	configName = "litpage"
	envPrefix  = "LITPAGE"
)

// LoadConfig reads configuration from the given path, or searches the
// current directory for litpage.yaml when configPath is empty. Environment
// variables prefixed with LITPAGE_ override file values, with dots in keys
// replaced by underscores (LITPAGE_LOGGING_LEVEL). A missing file is not an
// error when searching; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		cfg.BaseDir = filepath.Dir(used)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("project_package", "")
	v.SetDefault("source_dir", DefaultSourceDir)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("root_package", DefaultRootPackage)

	v.SetDefault("root", "")
	v.SetDefault("layout", "")
	v.SetDefault("imports", []string{})

	v.SetDefault("enhanced", DefaultEnhanced)
	v.SetDefault("data_hooks", DefaultDataHooks)

	v.SetDefault("ui_package", render.DefaultUIPackage)
	v.SetDefault("widgets_package", render.DefaultWidgetsPackage)
	v.SetDefault("data_package", render.DefaultDataPackage)

	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("max_files", DefaultMaxFiles)
	v.SetDefault("backup", DefaultBackup)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
