package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwtly10/litpage/internal/cli"
)

func newRenderCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Print the code generated for one document",
		Long: `Render one markdown document and print the Go source to stdout. The rest
of the site is loaded so that links between documents resolve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := global.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out, err := cli.NewProcessor(transformOptions(cfg, logger), cfg.Workers).RenderFile(args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out.Code)
			return nil
		},
	}
}
