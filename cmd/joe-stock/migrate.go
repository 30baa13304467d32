package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-stock/internal/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			e.logger.Info("migrations complete", "driver", e.cfg.DB.Driver)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			version, err := db.Status(e.db, e.cfg.DB.Driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	})
	return cmd
}
