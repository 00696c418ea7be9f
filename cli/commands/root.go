package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/config"
)

var (
	// cfg is loaded in PersistentPreRunE.
	cfg *config.Config

	// Persistent flags
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sqlforge",
	Short: "Build, render and run SQL against PostgreSQL, MySQL and SQLite",
	Long: `sqlforge - database agnostic query builder

Connection settings are read from .sqlforge.yaml (see "sqlforge init"),
SQLFORGE_* environment variables and .env files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "init":
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Debug = verbose
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		cfg.ApplyLogging()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command group IDs
const (
	groupQuery   = "query"
	groupUtility = "utility"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover .sqlforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every statement")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupQuery, Title: "Query:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	for _, c := range []*cobra.Command{selectCmd, renderCmd, execCmd} {
		c.GroupID = groupQuery
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{initCmd, pingCmd, versionCmd} {
		c.GroupID = groupUtility
		rootCmd.AddCommand(c)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
