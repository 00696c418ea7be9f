package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/retry"
	"github.com/satishbabariya/sqlforge/cli/internal/ui"
	"github.com/satishbabariya/sqlforge/database/pool"
)

var (
	pingAttempts int
	pingInterval time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Wait until the database is reachable",
	Long: `Connect to the configured database, retrying with exponential backoff.
Useful in container entrypoints before running anything else.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		spinner := ui.Spinner("connecting to " + cfg.Database.String())
		start := time.Now()

		type reached struct {
			version string
			dialect string
		}
		r, err := retry.DoWithResult(cmd.Context(), func(ctx context.Context) (reached, error) {
			p, err := openPool(ctx)
			if err != nil {
				return reached{}, err
			}
			defer p.Close()

			var v string
			err = p.With(ctx, func(c *pool.Conn) error {
				var err error
				v, err = c.Version(ctx)
				return err
			})
			return reached{version: v, dialect: p.Dialect().Name()}, err
		},
			retry.WithMaxAttempts(pingAttempts),
			retry.WithInitialDelay(pingInterval),
		)
		ui.StopSpinner(spinner)
		if err != nil {
			return err
		}

		ui.PrintSuccess(out, "%s reachable in %s", cfg.Database.String(), time.Since(start).Round(time.Millisecond))
		ui.PrintInfo(out, "server %s, dialect %s", r.version, r.dialect)
		return nil
	},
}

func init() {
	pingCmd.Flags().IntVar(&pingAttempts, "attempts", 5, "maximum connection attempts")
	pingCmd.Flags().DurationVar(&pingInterval, "interval", 200*time.Millisecond, "delay before the first retry, doubled each time")
}
