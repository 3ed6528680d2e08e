// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/database"
	"gorm.io/gorm"
)

// SetupTestDB opens a migrated in-memory SQLite database private to t.
// The pool is pinned to one connection so the shared-cache database outlives
// every statement of the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	db, err := database.NewGorm(database.Config{
		Driver:       database.DriverSqlite,
		Dsn:          dsn,
		MaxOpenConns: 1,
		Silent:       true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.RunMigration(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if source, err := db.DB(); err == nil {
			source.Close()
		}
	})

	return db
}

func CountRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func StrPtr(v string) *string {
	return &v
}

func UintPtr(v uint) *uint {
	return &v
}
