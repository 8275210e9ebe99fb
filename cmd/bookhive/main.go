// Command bookhive is the application entry point: HTTP server, migrations
// and seeding behind one cobra CLI.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bookhive/bookhive/config"
	"github.com/bookhive/bookhive/internal/server"
	"github.com/bookhive/bookhive/pkg/database"
	"github.com/bookhive/bookhive/pkg/migration"
	"github.com/bookhive/bookhive/pkg/storage"
	"github.com/bookhive/bookhive/pkg/workerpool"
	"github.com/bookhive/bookhive/pkg/ws"

	// Register migrations and seeders.
	_ "github.com/bookhive/bookhive/database/migrations"
	"github.com/bookhive/bookhive/database/seeders"
)

func main() {
	root := &cobra.Command{
		Use:           "bookhive",
		Short:         "BookHive bookstore backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		migrateRollbackCmd(),
		migrateStatusCmd(),
		seedCmd(),
		routeListCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run()
		},
	}
}

// withDB loads config, opens the database and hands it to fn.
func withDB(fn func() error) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	return fn()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func() error {
				return migration.New(database.DB).Run()
			})
		},
	}
}

func migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last migration batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func() error {
				return migration.New(database.DB).Rollback()
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func() error {
				entries, err := migration.New(database.DB).Status()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
				for _, e := range entries {
					ran := "no"
					batch := "-"
					if e.Ran {
						ran = "yes"
						batch = fmt.Sprintf("%d", e.Batch)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, ran, batch)
				}
				return w.Flush()
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func() error {
				return seeders.Run(database.DB)
			})
		},
	}
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List every registered route",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			storage.Connect()

			pool := workerpool.New(1)
			defer pool.Shutdown()

			r := server.BuildRouter(nil, ws.NewHub(), pool)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			for _, route := range r.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Name)
			}
			return w.Flush()
		},
	}
}
