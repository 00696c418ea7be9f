package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/ui"
)

var (
	renderFlags   queryFlags
	renderDialect string
	renderDebug   bool
	renderPretty  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <table>",
	Short: "Print the SQL a select would run, without connecting",
	Example: `  sqlforge render product --where "price > 9.5 AND category_id IN (1, 2)" --dialect mysql
  sqlforge render product --debug`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := renderFlags.build(args[0])
		if err != nil {
			return err
		}
		d, err := offlineDialect(renderDialect)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if renderDebug {
			sql, err := b.DebugBuild(d)
			if err != nil {
				return err
			}
			if renderPretty {
				ui.PrintSQL(out, sql)
			} else {
				fmt.Fprintln(out, sql)
			}
			return nil
		}

		sql, params, err := b.Build(d)
		if err != nil {
			return err
		}
		if renderPretty {
			ui.PrintSQL(out, sql)
		} else {
			fmt.Fprintln(out, sql)
		}
		ui.PrintParams(out, params)
		return nil
	},
}

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVar(&renderDialect, "dialect", "", "postgres, mysql or sqlite (default: configured backend)")
	renderCmd.Flags().BoolVar(&renderDebug, "debug", false, "inline values instead of placeholders")
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "syntax highlight the statement")
}
