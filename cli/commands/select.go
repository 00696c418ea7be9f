package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/ui"
	"github.com/satishbabariya/sqlforge/database/pool"
)

var (
	selectFlags queryFlags
	selectDebug bool
)

var selectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Query a table and print the rows",
	Long: `Build a SELECT from flags, run it and print the result as a table.

Filters use SQL-like syntax: comparisons (= != <> < <= > >=), LIKE, ILIKE,
IN (...), NOT IN (...), IS [NOT] NULL, combined with AND, OR and parentheses.`,
	Example: `  sqlforge select product --columns product_id,name,price --where "price >= 10" --order "price DESC" --limit 20
  sqlforge select bazaar.category --where "name ILIKE 'cam%'" --debug`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := selectFlags.build(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		out := cmd.OutOrStdout()
		return p.With(ctx, func(c *pool.Conn) error {
			if selectDebug {
				sql, err := b.DebugBuild(c.Dialect())
				if err != nil {
					return err
				}
				ui.PrintSQL(out, sql)
			}
			res, err := b.Execute(ctx, c)
			if err != nil {
				return err
			}
			return ui.PrintRows(out, res.Rows)
		})
	},
}

func init() {
	selectFlags.register(selectCmd)
	selectCmd.Flags().BoolVar(&selectDebug, "debug", false, "print the statement with values inlined before running it")
}
