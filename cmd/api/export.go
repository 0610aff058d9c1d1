package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

func newExportCmd(a *app) *cobra.Command {
	var in appointment.StatsInput
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write appointments and stats to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if out == "" {
				out = filepath.Join(a.cfg.ExportDir, fmt.Sprintf("appointments-%s.xlsx", wallclock.Today()))
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			uc := appointment.NewExportAppointments(repository.NewAppointmentGormRepository(db))
			if err := uc.Execute(cmd.Context(), in, f); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			a.logger.Info().Str("file", out).Msg("export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.StartDate, "start-date", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.EndDate, "end-date", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "output", "o", "", "target file (default EXPORT_DIR/appointments-<today>.xlsx)")
	return cmd
}
