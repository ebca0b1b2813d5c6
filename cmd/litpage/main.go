// Package main provides the litpage command, which compiles a tree of
// markdown documents into Go page components.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/internal/config"
	"github.com/jwtly10/litpage/internal/transformer"
)

type globalOptions struct {
	configPath string
	debug      bool
	noColor    bool
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "litpage",
		Short: "Compile markdown pages into Go components",
		Long: `litpage turns a directory of markdown documents into Go source, one
component function per document, with routes derived from the file tree.

Commands:
  build     Render every document and write the generated files
  render    Print the code generated for one document
  routes    List the pages of the site`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./litpage.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newBuildCommand(opts))
	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newRoutesCommand(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "litpage %s\n", litpage.Version)
		},
	}
}

// setup loads the configuration and installs the logger it asks for.
func (o *globalOptions) setup(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(stderr, cfg.Logging, o.debug)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, debug bool) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if debug {
		handlerOpts.Level = slog.LevelDebug
		handlerOpts.AddSource = true
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler), nil
}

func transformOptions(cfg *config.Config, logger *slog.Logger) transformer.TransformOptions {
	return transformer.TransformOptions{
		SourceRoot: cfg.SourcePath(),
		OutputRoot: cfg.OutputPath(),
		MaxFiles:   cfg.MaxFiles,
		NoBackup:   !cfg.Backup,
		Site:       cfg.SiteOptions(),
		Render:     cfg.RenderOptions(logger),
	}
}
