package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStockRecordsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_stock_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stock_records",
		"CHECK (quantity_liters >= 0)",
		"FOREIGN KEY (beverage_id) REFERENCES beverage_types(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_scope ON stock_records (beverage_id, IFNULL(event_id, 0))",
		"DROP TABLE IF EXISTS stock_records",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_sales.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"CHECK (container_size_ml IN ('small', 'medium', 'large'))",
		"CHECK (quantity > 0)",
		"FOREIGN KEY (comanda_id) REFERENCES comandas(id) ON DELETE SET NULL",
		"FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE SET NULL",
		"CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at, id)",
		"DROP TABLE IF EXISTS sales",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEveryMigrationHasUpAndDown(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no migration files found")
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		content := string(data)
		if !strings.Contains(content, "-- +goose Up") {
			t.Errorf("%s: missing goose Up marker", path)
		}
		if !strings.Contains(content, "-- +goose Down") {
			t.Errorf("%s: missing goose Down marker", path)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
