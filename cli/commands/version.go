package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/ui"
	"github.com/satishbabariya/sqlforge/cli/internal/version"
	"github.com/satishbabariya/sqlforge/database/pool"
)

var versionClientOnly bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print client and server versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.Get().FullString())
		if versionClientOnly || cfg.Database.Validate() != nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		p, err := openPool(ctx)
		if err != nil {
			ui.PrintWarning(out, "server unavailable: %v", err)
			return nil
		}
		defer p.Close()

		var server string
		if err := p.With(ctx, func(c *pool.Conn) error {
			var err error
			server, err = c.Version(ctx)
			return err
		}); err != nil {
			ui.PrintWarning(out, "server version unavailable: %v", err)
			return nil
		}

		fmt.Fprintf(out, "Server: %s %s (dialect %s)\n", p.Backend().Name(), server, p.Dialect().Name())
		check, err := version.CheckServer(p.Backend().Name(), server)
		switch {
		case err != nil:
			ui.PrintWarning(out, "%v", err)
		case !check.Supported:
			ui.PrintWarning(out, "%s %s is older than the minimum supported %s", check.Backend, check.Server, check.Minimum)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionClientOnly, "client", false, "skip contacting the server")
}
