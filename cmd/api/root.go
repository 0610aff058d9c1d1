package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
)

// app is what every subcommand gets once the root has loaded config.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "booking",
		Short:         "Barber booking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.LogLevel, cfg.LogFormat).
				With().Str("command", cmd.Name()).Logger()
			return nil
		},
	}

	serve := newServeCmd(a)
	root.AddCommand(serve, newMigrateCmd(a), newSeedCmd(a), newExportCmd(a))

	// plain "booking" serves
	root.RunE = serve.RunE

	return root
}

// openDB connects and brings the schema up to date.
func (a *app) openDB() (*gorm.DB, error) {
	db, err := dbpkg.NewDB(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if err := dbpkg.Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
