package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: Index checklists by vehicle and departure for the monthly
	// report query.
	`CREATE INDEX IF NOT EXISTS idx_checklists_vehicle_departure
	     ON checklists(vehicle_id, departure_ts)`,
}

// Migrate ensures the schema exists and applies the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
