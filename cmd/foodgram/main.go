package main

import (
	"fmt"
	"os"

	"foodgram/cmd/config"
	"foodgram/internal/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Recipe sharing backend",
	Long: `foodgram serves the recipe sharing API.

Available subcommands:
  serve   - Start the HTTP server
  migrate - Create or update database tables
  import  - Load ingredients or tags from a CSV or JSON file`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfig()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd)
	importCmd.AddCommand(importIngredientsCmd, importTagsCmd)
}

// connect opens the database and optionally migrates it.
func connect(migrate bool) (*gorm.DB, error) {
	db, err := config.ConnectDB()
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := runMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
