package main

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the default week, the admin account and sample services",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			opts := seed.Options{
				AdminUsername: a.cfg.AdminUsername,
				AdminPassword: a.cfg.AdminPassword,
			}
			if password != "" {
				opts.AdminPassword = password
			}
			return seed.Run(cmd.Context(), db, opts, a.logger)
		},
	}

	cmd.Flags().StringVar(&password, "admin-password", "", "admin password (overrides ADMIN_PASSWORD)")
	return cmd
}
