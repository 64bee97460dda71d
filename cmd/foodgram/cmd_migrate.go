package main

import (
	migration "foodgram/cmd/database/migrate"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := connect(true)
		return err
	},
}

func runMigrations(db *gorm.DB) error {
	return migration.Migrate(db)
}
