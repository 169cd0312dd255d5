package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/mddapi/component"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
)

func tempSQLiteConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Driver:   DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on",
		LogLevel: "silent",
	}
}

// TestComponent_Name tests that the component returns the correct name
func TestComponent_Name(t *testing.T) {
	comp := NewComponent(tempSQLiteConfig(t), logger.NewNop())
	if got := comp.Name(); got != "database" {
		t.Errorf("Name() = %q, want %q", got, "database")
	}
	var _ component.Component = comp
}

// TestComponent_Lifecycle tests start, migrate, health and stop
func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent(tempSQLiteConfig(t), logger.NewNop())
	ctx := context.Background()

	if comp.DB() != nil {
		t.Error("DB() should be nil before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before start = %s, want unhealthy", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	db := comp.DB()
	if db == nil {
		t.Fatal("DB() should not be nil after Start")
	}
	if !db.GormDB.Migrator().HasTable("users") {
		t.Error("expected migrations to create the users table")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health = %s (%s), want healthy", h.Status, h.Message)
	}
	if d := comp.Describe(); d.Type != "database" {
		t.Errorf("unexpected description %+v", d)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
}

// TestComponent_MigrateDisabled tests that no schema is created when disabled
func TestComponent_MigrateDisabled(t *testing.T) {
	cfg := tempSQLiteConfig(t)
	off := false
	cfg.Migrate = &off
	comp := NewComponent(cfg, logger.NewNop())
	ctx := context.Background()

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)

	if comp.DB().GormDB.Migrator().HasTable("users") {
		t.Error("users table should not exist with migrations disabled")
	}
}

type row struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

func (row) TableName() string { return "probes" }

// TestDB_UTCAndDuplicateTranslation tests NowFunc and TranslateError wiring
func TestDB_UTCAndDuplicateTranslation(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, tempSQLiteConfig(t), logger.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if err := db.WithContext(ctx).Exec(
		"CREATE TABLE probes (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT NOT NULL UNIQUE, created_at DATETIME)",
	).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	first := row{Email: "a@b.c"}
	if err := db.WithContext(ctx).Create(&first).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", first.CreatedAt.Location())
	}

	err = db.WithContext(ctx).Create(&row{Email: "a@b.c"}).Error
	if !IsDuplicateError(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	err = db.WithContext(ctx).First(&row{}, "email = ?", "missing").Error
	if !IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// TestDB_WithTransaction tests commit and rollback
func TestDB_WithTransaction(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, tempSQLiteConfig(t), logger.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()
	db.WithContext(ctx).Exec("CREATE TABLE probes (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT UNIQUE, created_at DATETIME)")

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&row{Email: "x@y.z"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	db.WithContext(ctx).Model(&row{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}

	if err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&row{Email: "x@y.z"}).Error
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	db.WithContext(ctx).Model(&row{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 row after commit, got %d", count)
	}
}

func TestFromDatabase(t *testing.T) {
	if FromDatabase(nil) != nil {
		t.Error("nil error should map to nil")
	}
	if got := FromDatabase(errors.New("dial tcp: connection refused")); got.Code != apperrors.ErrCodeServiceUnavailable {
		t.Errorf("connection error code = %s", got.Code)
	}
	if got := FromDatabase(errors.New("syntax error")); got.Code != apperrors.ErrCodeInternal {
		t.Errorf("generic error code = %s", got.Code)
	}
	nf := apperrors.UserNotFound("a@b.c")
	if got := FromDatabase(nf); got != nf {
		t.Error("AppError should pass through unchanged")
	}
}
