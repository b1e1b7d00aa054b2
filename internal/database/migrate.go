package database

import (
	"database/sql"
	"fmt"
	"log"
)

// migrate applies every migration newer than the database's recorded
// schema version. The version lives in PRAGMA user_version, so the
// database file itself says how far it has been migrated.
func migrate(conn *sql.DB) error {
	current, err := schemaVersion(conn)
	if err != nil {
		return err
	}

	// A database created before versioning carries tables but reports
	// version 0. Its schema already matches migration 1, so stamp it
	// and move on.
	if current == 0 {
		preVersioned, err := hasTable(conn, "channels")
		if err != nil {
			return err
		}
		if preVersioned {
			log.Printf("unversioned database detected, recording schema version 1")
			if err := setSchemaVersion(conn, 1); err != nil {
				return err
			}
			current = 1
		}
	}

	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		log.Printf("migrating schema to version %d (%s)", m.Version, m.Description)
		if err := apply(conn, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(conn *sql.DB, m Migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	// modernc/sqlite rejects PRAGMA writes inside a transaction, so the
	// stamp lands after commit. Crashing in between is harmless: the DDL
	// is idempotent and the migration simply re-runs.
	return setSchemaVersion(conn, m.Version)
}

func schemaVersion(conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func setSchemaVersion(conn *sql.DB, v int) error {
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("recording schema version %d: %w", v, err)
	}
	return nil
}

func hasTable(conn *sql.DB, name string) (bool, error) {
	var count int
	err := conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspecting schema for %s: %w", name, err)
	}
	return count > 0, nil
}
