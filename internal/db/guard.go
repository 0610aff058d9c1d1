package db

import (
	"gorm.io/gorm"
)

const overlapGuard = "appointments_no_overlap"

// Postgres: an exclusion constraint over (date, [start_time, end_time)) that
// ignores cancelled rows.
var postgresGuard = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + overlapGuard + `') THEN
		ALTER TABLE appointments ADD CONSTRAINT ` + overlapGuard + `
			EXCLUDE USING gist ("date" WITH =, int8range(start_time, end_time) WITH &&)
			WHERE (status <> 'cancelled');
	END IF;
END $$`,
}

// SQLite: triggers that abort an insert or a move onto an occupied range.
// The update trigger only fires when the row's range or liveness changes.
var sqliteGuard = []string{
	`CREATE TRIGGER IF NOT EXISTS ` + overlapGuard + `_insert
BEFORE INSERT ON appointments
WHEN NEW.status <> 'cancelled' AND EXISTS (
	SELECT 1 FROM appointments a
	WHERE a.date = NEW.date
	  AND a.status <> 'cancelled'
	  AND a.start_time < NEW.end_time
	  AND NEW.start_time < a.end_time
)
BEGIN
	SELECT RAISE(ABORT, '` + overlapGuard + `');
END`,
	`CREATE TRIGGER IF NOT EXISTS ` + overlapGuard + `_update
BEFORE UPDATE ON appointments
WHEN NEW.status <> 'cancelled'
 AND (NEW.date <> OLD.date
   OR NEW.start_time <> OLD.start_time
   OR NEW.end_time <> OLD.end_time
   OR OLD.status = 'cancelled')
 AND EXISTS (
	SELECT 1 FROM appointments a
	WHERE a.id <> NEW.id
	  AND a.date = NEW.date
	  AND a.status <> 'cancelled'
	  AND a.start_time < NEW.end_time
	  AND NEW.start_time < a.end_time
)
BEGIN
	SELECT RAISE(ABORT, '` + overlapGuard + `');
END`,
}

// InstallOverlapGuard is idempotent.
func InstallOverlapGuard(db *gorm.DB) error {
	stmts := sqliteGuard
	if db.Dialector.Name() == "postgres" {
		stmts = postgresGuard
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
