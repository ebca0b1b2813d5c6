package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jwtly10/litpage/internal/cli"
)

func newBuildCommand(global *globalOptions) *cobra.Command {
	var (
		outDir string
		backup bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "build [source-dir]",
		Short: "Render every document and write the generated files",
		Long: `Render every markdown document under the source directory and write one Go
file per document under the output directory. Nothing is written when any
document fails to render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := global.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := transformOptions(cfg, logger)
			if len(args) == 1 {
				opts.SourceRoot = args[0]
			}
			if outDir != "" {
				opts.OutputRoot = outDir
			}
			if cmd.Flags().Changed("backup") {
				opts.NoBackup = !backup
			}

			logger.Debug("build options", "options", opts.Pretty(), "workers", cfg.Workers)

			processor := cli.NewProcessor(opts, cfg.Workers)
			out := cmd.OutOrStdout()

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()

				color.New(color.FgCyan).Fprintf(out, "Watching %s\n", opts.SourceRoot)
				return processor.Watch(ctx, func(results []cli.TranspileResult, err error) {
					if err != nil {
						color.New(color.FgRed).Fprintf(out, "Build failed: %v\n", err)
						return
					}
					color.New(color.FgGreen).Fprintf(out, "%s rebuilt %d pages\n",
						time.Now().Format(time.TimeOnly), len(results))
				})
			}

			start := time.Now()
			results, err := processor.Build(cmd.Context())
			if err != nil {
				return err
			}

			for _, r := range results {
				color.New(color.FgGreen).Fprint(out, "  wrote ")
				fmt.Fprintf(out, "%s -> %s\n", r.Path, r.OutPath)
			}
			color.New(color.FgGreen, color.Bold).Fprintf(out, "Built %d pages in %s\n",
				len(results), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides output_dir)")
	cmd.Flags().BoolVar(&backup, "backup", false, "back up existing outputs before overwriting")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever a source changes")

	return cmd
}
