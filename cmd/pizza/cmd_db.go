package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/jwtpizza/config"
	"github.com/shashiranjanraj/jwtpizza/database/seeders"
	"github.com/shashiranjanraj/jwtpizza/pkg/database"
	"github.com/shashiranjanraj/jwtpizza/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// withDB runs fn against the configured database and closes it afterwards.
func withDB(fn func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close(database.DB) //nolint:errcheck
		return fn(cmd)
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: withDB(func(cmd *cobra.Command) error {
		cmd.Println("Running migrations…")
		return migration.New(database.DB).Output(cmd.OutOrStdout()).Run()
	}),
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: withDB(func(cmd *cobra.Command) error {
		cmd.Println("Rolling back last batch…")
		return migration.New(database.DB).Output(cmd.OutOrStdout()).Rollback()
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: withDB(func(cmd *cobra.Command) error {
		return migration.New(database.DB).Output(cmd.OutOrStdout()).Status()
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and the starter menu",
	RunE: withDB(func(cmd *cobra.Command) error {
		cmd.Println("Running seeders…")
		return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
	}),
}
