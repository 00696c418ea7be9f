package main

import (
	"os"

	_ "github.com/satishbabariya/sqlforge/database/mysql"
	_ "github.com/satishbabariya/sqlforge/database/postgres"
	_ "github.com/satishbabariya/sqlforge/database/sqlite"

	"github.com/satishbabariya/sqlforge/cli/commands"
	"github.com/satishbabariya/sqlforge/cli/internal/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
