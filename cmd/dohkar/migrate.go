package main

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dohkar/dohkar-api/internal/app"
	"github.com/dohkar/dohkar-api/internal/store"
	migrations "github.com/dohkar/dohkar-api/migrations/postgres"
)

var errNotPostgres = errors.New("migrate: storage.driver must be postgres")

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de PostgreSQL",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.OpenStore(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := app.Migrate(cmd.Context(), st)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res.Applied) == 0 {
				fmt.Fprintln(out, "nothing to apply")
				return nil
			}
			fmt.Fprintf(out, "applied %v in %s\n", res.Applied, res.Duration)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Lista migraciones aplicadas y pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.OpenStore(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			p, ok := st.(interface{ Pool() *pgxpool.Pool })
			if !ok {
				return errNotPostgres
			}
			m := store.NewMigrator(migrations.FS, migrations.Dir)
			all, err := m.ParseMigrations()
			if err != nil {
				return err
			}
			applied, err := m.Applied(cmd.Context(), p.Pool())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, mig := range all {
				state := "pending"
				if applied[mig.Version] {
					state = "applied"
				}
				fmt.Fprintf(out, "%04d  %-8s %s\n", mig.Version, state, mig.Name)
			}
			fmt.Fprintf(out, "%d pending\n", len(store.Pending(all, applied)))
			return nil
		},
	}

	cmd.AddCommand(up, status)
	return cmd
}
