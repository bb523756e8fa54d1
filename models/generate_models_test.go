package models

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "models.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestColumnMismatchReport(t *testing.T) {
	db := openTestDB(t)

	if n := GenerateColumnMismatchReport(db); n != 0 {
		t.Fatalf("fresh schema reported %d mismatches", n)
	}

	if err := db.Exec("ALTER TABLE projects ADD COLUMN image text").Error; err != nil {
		t.Fatal(err)
	}
	if n := GenerateColumnMismatchReport(db); n != 1 {
		t.Fatalf("got %d mismatches, want 1", n)
	}
}

func TestModelFieldsUseNamingStrategy(t *testing.T) {
	db := openTestDB(t)
	fields := getModelFields(db, Project{})
	for _, want := range []string{"problem_statement", "target_fund", "creator_id", "slug"} {
		if !slices.Contains(fields, want) {
			t.Errorf("missing %s in %v", want, fields)
		}
	}
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "title", "image"}, []string{"id", "title"})
	if len(got) != 1 || got[0] != "image" {
		t.Fatalf("mismatches = %v", got)
	}
	if got := extractColumnNameFromGormTag("type:text; column:legacy_name"); got != "legacy_name" {
		t.Fatalf("column = %q", got)
	}
}
