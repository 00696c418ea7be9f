package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/config"
	"github.com/satishbabariya/sqlforge/cli/internal/ui"
	"github.com/satishbabariya/sqlforge/cli/internal/watch"
	"github.com/satishbabariya/sqlforge/database/pool"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

var (
	execParams []string
	execWatch  bool
)

var execCmd = &cobra.Command{
	Use:   "exec <sql|file.sql>",
	Short: "Run a raw statement or SQL file",
	Long: `Run a raw statement and print its rows, or the number of affected rows.

Positional placeholders are bound from --param in order. Values are typed
by shape: integers, decimals, true/false and null, anything else is text.`,
	Example: `  sqlforge exec "SELECT name, price FROM product WHERE price > $1" -p 10
  sqlforge exec reports/top_sellers.sql --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := make([]types.Value, len(execParams))
		for i, p := range execParams {
			params[i] = parseParam(p)
		}

		source := args[0]
		isFile, err := afero.Exists(config.AppFs, source)
		if err != nil {
			return err
		}
		if execWatch && !isFile {
			return fmt.Errorf("--watch needs a file, %q does not exist", source)
		}

		ctx := cmd.Context()
		p, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		out := cmd.OutOrStdout()
		run := func(ctx context.Context) error {
			sql := source
			if isFile {
				data, err := afero.ReadFile(config.AppFs, source)
				if err != nil {
					return err
				}
				sql = string(data)
			}
			sql = strings.TrimSpace(sql)
			if sql == "" {
				return fmt.Errorf("empty statement")
			}
			return p.With(ctx, func(c *pool.Conn) error {
				if returnsRows(sql) {
					rows, err := c.ExecuteWithReturn(ctx, sql, params)
					if err != nil {
						return err
					}
					return ui.PrintRows(out, rows)
				}
				n, err := c.Execute(ctx, sql, params)
				if err != nil {
					return err
				}
				ui.PrintAffected(out, n)
				return nil
			})
		}

		if !execWatch {
			return run(ctx)
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		w, err := watch.NewWatcher(source, func(ctx context.Context) error {
			ui.PrintInfo(out, "running %s", source)
			if err := run(ctx); err != nil {
				ui.PrintError("%v", err)
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
		ui.PrintInfo(out, "watching %s, press Ctrl+C to stop", source)
		return w.Run(ctx)
	},
}

func init() {
	execCmd.Flags().StringArrayVarP(&execParams, "param", "p", nil, "positional parameter (repeatable)")
	execCmd.Flags().BoolVar(&execWatch, "watch", false, "re-run whenever the file changes")
}
