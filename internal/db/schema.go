package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'collaborator' CHECK (role IN ('admin', 'collaborator')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS vehicles (
    id            INTEGER PRIMARY KEY,
    brand         TEXT NOT NULL,
    model         TEXT NOT NULL,
    year          INTEGER NOT NULL,
    license_plate TEXT NOT NULL,
    color         TEXT,
    mileage       INTEGER NOT NULL DEFAULT 0 CHECK (mileage >= 0),
    photo         BLOB,
    photo_mime    TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_license_plate
    ON vehicles(license_plate);

CREATE TABLE IF NOT EXISTS checklists (
    id                INTEGER PRIMARY KEY,
    vehicle_id        INTEGER NOT NULL,
    driver_name       TEXT NOT NULL,
    driver_id         INTEGER REFERENCES users(id),
    departure_ts      DATETIME NOT NULL,
    arrival_ts        DATETIME,
    departure_mileage INTEGER NOT NULL CHECK (departure_mileage >= 0),
    arrival_mileage   INTEGER CHECK (arrival_mileage IS NULL OR arrival_mileage >= departure_mileage),
    items             TEXT NOT NULL DEFAULT '{}',
    notes             TEXT,
    status            TEXT NOT NULL CHECK (status IN ('pending_arrival', 'completed', 'problem')),
    date              TEXT NOT NULL,
    ai_diagnosis      TEXT,
    refuelings        TEXT NOT NULL DEFAULT '[]',
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checklists_vehicle ON checklists(vehicle_id);
CREATE INDEX IF NOT EXISTS idx_checklists_date ON checklists(date);

CREATE TABLE IF NOT EXISTS deletion_reports (
    id                INTEGER PRIMARY KEY,
    reference         TEXT NOT NULL UNIQUE,
    deleted_user_id   INTEGER NOT NULL,
    deleted_user_name TEXT NOT NULL,
    admin_id          INTEGER NOT NULL,
    admin_name        TEXT NOT NULL,
    reason            TEXT NOT NULL,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
