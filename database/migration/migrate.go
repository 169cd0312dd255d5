// Package migration applies the service's versioned SQL schema through
// golang-migrate. Scripts are embedded per driver under sql/<driver>.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed sql
var scripts embed.FS

// DriverFunc creates a migrate database driver from sql.DB.
type DriverFunc func(*sql.DB) (migratedb.Driver, error)

// Source pairs the embedded scripts for one driver with its migrate driver.
type Source struct {
	FS     fs.FS
	Path   string
	Driver DriverFunc
}

// ForDriver returns the embedded source for "sqlite" or "postgres".
func ForDriver(name string) (Source, error) {
	switch name {
	case "sqlite":
		return Source{FS: scripts, Path: "sql/sqlite", Driver: func(db *sql.DB) (migratedb.Driver, error) {
			return migratesqlite.WithInstance(db, &migratesqlite.Config{})
		}}, nil
	case "postgres":
		return Source{FS: scripts, Path: "sql/postgres", Driver: func(db *sql.DB) (migratedb.Driver, error) {
			return migratepg.WithInstance(db, &migratepg.Config{})
		}}, nil
	default:
		return Source{}, fmt.Errorf("no migrations for driver %q", name)
	}
}

// Up runs all pending migrations. No pending migrations is not an error.
func Up(gormDB *gorm.DB, src Source) error {
	m, err := newMigrator(gormDB, src)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back every applied migration.
func Down(gormDB *gorm.DB, src Source) error {
	m, err := newMigrator(gormDB, src)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the current migration version and dirty flag. A database
// with no migrations applied reports version 0.
func Version(gormDB *gorm.DB, src Source) (uint, bool, error) {
	m, err := newMigrator(gormDB, src)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// newMigrator creates a golang-migrate instance backed by the embedded FS.
// Callers must not call m.Close(): it would close the shared sql.DB.
func newMigrator(gormDB *gorm.DB, src Source) (*migrate.Migrate, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	driver, err := src.Driver(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}

	source, err := iofs.New(src.FS, src.Path)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "database", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
