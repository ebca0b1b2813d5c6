package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jwtly10/litpage/internal/cli"
)

func newRoutesCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the pages of the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := global.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			routes, err := cli.NewProcessor(transformOptions(cfg, logger), cfg.Workers).Routes()
			if err != nil {
				return err
			}

			dynamic := color.New(color.FgYellow).SprintFunc()

			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.Style().Options.SeparateColumns = false
			tbl.Style().Options.DrawBorder = false

			tbl.AppendHeader(table.Row{"Route", "Source", ""})
			for _, r := range routes {
				note := ""
				if r.Dynamic {
					note = dynamic("dynamic")
				}
				tbl.AppendRow(table.Row{r.Route, r.Path, note})
			}
			tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d pages", len(routes))})

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}
}
