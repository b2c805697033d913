package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

// NewDB opens a private in-memory sqlite database and migrates models into it.
func NewDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	db, err := config.Connect(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
