package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/jwtpizza/config"
	"github.com/shashiranjanraj/jwtpizza/internal/kernel"
	"github.com/shashiranjanraj/jwtpizza/internal/server"
	"github.com/shashiranjanraj/jwtpizza/pkg/database"
	"github.com/shashiranjanraj/jwtpizza/pkg/logger"
	"github.com/shashiranjanraj/jwtpizza/pkg/migration"
)

var migrateOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := k.Close(); err != nil {
				logger.Warn("shutdown: close failed", "error", err)
			}
		}()

		if migrateOnServe {
			if err := migration.New(database.DB).Output(cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}
		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

// route:list builds the router without any backing services.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		k := kernel.New(kernel.Options{})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Router.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnServe, "migrate", false, "run pending migrations before serving")
}
