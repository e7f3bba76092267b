package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	client, err := NewWithConn(conn)
	if err != nil {
		t.Fatalf("wrap connection: %v", err)
	}
	return client
}

func TestNewWithConnRequiresConnection(t *testing.T) {
	t.Parallel()

	if _, err := NewWithConn(nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Exec(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO kv (k, v) VALUES ('a', '1')").Error
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	var count int64
	if err := client.Raw(ctx, "SELECT COUNT(*) FROM kv").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed row, found %d", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Exec(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO kv (k, v) VALUES ('a', '1')").Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	var count int64
	if err := client.Raw(ctx, "SELECT COUNT(*) FROM kv").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		constraint string
		want       bool
	}{
		{nil, "", false},
		{errors.New("UNIQUE constraint failed: beverage_types.name"), "", true},
		{errors.New("ERROR: duplicate key value violates unique constraint \"idx_stock_scope\" (SQLSTATE 23505)"), "", true},
		{errors.New("some other failure"), "", false},
		{errors.New("constraint idx_beverage_types_name violated"), "idx_beverage_types_name", true},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
			t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tt.err, tt.constraint, got, tt.want)
		}
	}
}
