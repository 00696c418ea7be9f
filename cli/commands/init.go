package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/config"
	"github.com/satishbabariya/sqlforge/cli/internal/ui"
	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/pool"
)

var (
	initOutput string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .sqlforge.yaml interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := initOutput
		if path == "" {
			path = config.FileName + ".yaml"
		}
		exists, err := afero.Exists(config.AppFs, path)
		if err != nil {
			return err
		}
		if exists && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		ui.PrintHeader(out, "sqlforge init", "Describe the database to connect to")

		db, err := promptDatabase()
		if err != nil {
			return err
		}
		c := &config.Config{
			Database:      db,
			Pool:          pool.DefaultConfig(),
			LogFormat:     "text",
			SlowThreshold: database.DefaultSlowThreshold,
		}
		if err := config.Save(c, path); err != nil {
			return err
		}

		ui.PrintSuccess(out, "wrote %s", path)
		ui.PrintInfo(out, "next: sqlforge ping")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOutput, "output", "", "file to write (default ./.sqlforge.yaml)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

// defaultPort returns the usual port for a backend, 0 when it has none.
func defaultPort(scheme string) int {
	switch scheme {
	case "postgres":
		return 5432
	case "mysql":
		return 3306
	}
	return 0
}

func promptDatabase() (database.Config, error) {
	var db database.Config
	if err := survey.AskOne(&survey.Select{
		Message: "Backend:",
		Options: []string{"postgres", "mysql", "sqlite"},
		Default: "postgres",
	}, &db.Scheme); err != nil {
		return db, err
	}

	if db.Scheme == "sqlite" {
		err := survey.AskOne(&survey.Input{
			Message: "Database file:",
			Default: "data.db",
		}, &db.Database, survey.WithValidator(survey.Required))
		return db, err
	}

	answers := struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
	}{}
	qs := []*survey.Question{
		{
			Name:   "host",
			Prompt: &survey.Input{Message: "Host:", Default: "localhost"},
		},
		{
			Name:   "port",
			Prompt: &survey.Input{Message: "Port:", Default: strconv.Itoa(defaultPort(db.Scheme))},
			Validate: func(ans interface{}) error {
				if _, err := strconv.Atoi(ans.(string)); err != nil {
					return fmt.Errorf("port must be a number")
				}
				return nil
			},
		},
		{
			Name:   "user",
			Prompt: &survey.Input{Message: "User:"},
		},
		{
			Name:   "password",
			Prompt: &survey.Password{Message: "Password:"},
		},
		{
			Name:     "database",
			Prompt:   &survey.Input{Message: "Database name:"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(qs, &answers); err != nil {
		return db, err
	}

	db.Host = answers.Host
	db.Port, _ = strconv.Atoi(answers.Port)
	db.User = answers.User
	db.Password = answers.Password
	db.Database = answers.Database
	if db.Scheme == "postgres" {
		db.Params = map[string]string{"sslmode": "disable"}
	}
	return db, nil
}
