// Package config loads the settings of a litpage build from litpage.yaml and
// LITPAGE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jwtly10/litpage/render"
	"github.com/jwtly10/litpage/site"
)

// Sentinel errors for configuration validation.
var (
	// ErrNoProjectPackage indicates project_package was not set.
	ErrNoProjectPackage = errors.New("project_package is required")
	// ErrNoSourceDir indicates source_dir was set to an empty string.
	ErrNoSourceDir = errors.New("source_dir must not be empty")
	// ErrInvalidWorkers indicates workers is not positive.
	ErrInvalidWorkers = errors.New("workers must be greater than zero")
	// ErrInvalidMaxFiles indicates max_files is not positive.
	ErrInvalidMaxFiles = errors.New("max_files must be greater than zero")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("invalid logging level")
	// ErrInvalidLogFormat indicates an unknown logging.format.
	ErrInvalidLogFormat = errors.New("invalid logging format")
)

// Default values for configuration keys.
const (
	DefaultSourceDir   = "markdown"
	DefaultOutputDir   = "pages"
	DefaultEnhanced    = true
	DefaultDataHooks   = true
	DefaultWorkers     = 4
	DefaultMaxFiles    = 500
	DefaultBackup      = false
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultRootPackage = site.DefaultRootPackage
)

// Config is the full litpage configuration.
type Config struct {
	ProjectPackage string `mapstructure:"project_package"`

	SourceDir   string `mapstructure:"source_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	RootPackage string `mapstructure:"root_package"`

	Root    string   `mapstructure:"root"`
	Layout  string   `mapstructure:"layout"`
	Imports []string `mapstructure:"imports"`

	Enhanced  bool `mapstructure:"enhanced"`
	DataHooks bool `mapstructure:"data_hooks"`

	UIPackage      string `mapstructure:"ui_package"`
	WidgetsPackage string `mapstructure:"widgets_package"`
	DataPackage    string `mapstructure:"data_package"`

	Workers  int  `mapstructure:"workers"`
	MaxFiles int  `mapstructure:"max_files"`
	Backup   bool `mapstructure:"backup"`

	Logging LoggingConfig `mapstructure:"logging"`

	// Directory relative source_dir and output_dir are resolved against.
	// Set by LoadConfig to the directory of the file that was read.
	BaseDir string `mapstructure:"-"`
}

// LoggingConfig controls the CLI log handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.ProjectPackage == "" {
		return ErrNoProjectPackage
	}
	if c.SourceDir == "" {
		return ErrNoSourceDir
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxFiles, c.MaxFiles)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w %q, want text or json", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidLogLevel, l.Level)
	}
	return level, nil
}

// SourcePath is source_dir resolved against BaseDir.
func (c *Config) SourcePath() string { return c.resolve(c.SourceDir) }

// OutputPath is output_dir resolved against BaseDir.
func (c *Config) OutputPath() string { return c.resolve(c.OutputDir) }

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) || c.BaseDir == "" {
		return dir
	}
	return filepath.Join(c.BaseDir, dir)
}

// SiteOptions returns the options of the metadata cache.
func (c *Config) SiteOptions() site.Options {
	return site.Options{RootPackage: c.RootPackage}
}

// RenderOptions returns renderer options reporting diagnostics to logger.
func (c *Config) RenderOptions(logger *slog.Logger) render.Options {
	return render.Options{
		ProjectPackage: c.ProjectPackage,
		Root:           c.Root,
		Layout:         c.Layout,
		Imports:        c.Imports,
		Enhanced:       c.Enhanced,
		DataHooks:      c.DataHooks,
		UIPackage:      c.UIPackage,
		WidgetsPackage: c.WidgetsPackage,
		DataPackage:    c.DataPackage,
		Logger:         logger,
	}
}
