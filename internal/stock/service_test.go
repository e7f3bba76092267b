package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db"
	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockRecord{}, &models.StockMovement{}); err != nil {
		t.Fatalf("migrate stock tables: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	client, err := db.NewWithConn(conn)
	if err != nil {
		t.Fatalf("wrap connection: %v", err)
	}
	svc, err := NewService(client, NewRepository(conn), nil, 5)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetUnmanagedScope(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	level, err := svc.Get(ctx, 1, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if level.Managed() {
		t.Fatal("scope without a record must be unmanaged")
	}
	if level.Depleted() {
		t.Fatal("unmanaged scope must never report depleted")
	}
}

func TestSetCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	level, err := svc.Set(ctx, SetStockInput{BeverageID: 1, QuantityLiters: 30})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !level.Managed() || level.QuantityLiters() != 30 {
		t.Fatalf("unexpected level after create: %+v", level)
	}
	if level.ThresholdLiters() != 5 {
		t.Fatalf("expected default threshold 5, got %v", level.ThresholdLiters())
	}

	level, err = svc.Set(ctx, SetStockInput{BeverageID: 1, QuantityLiters: 12, LowStockThresholdLiters: 3})
	if err != nil {
		t.Fatalf("re-set: %v", err)
	}
	if level.QuantityLiters() != 12 || level.ThresholdLiters() != 3 {
		t.Fatalf("unexpected level after update: %+v", level)
	}

	var count int64
	if err := conn.Model(&models.StockRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 1 {
		t.Fatalf("set must upsert a single record, found %d", count)
	}

	movements, err := svc.Movements(ctx, 1, nil, 0)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 adjustment movements, got %d", len(movements))
	}
	for _, movement := range movements {
		if movement.Type != enums.StockMovementTypeAdjustment {
			t.Fatalf("unexpected movement type %s", movement.Type)
		}
	}
}

func TestSetRejectsNegativeQuantity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))

	_, err := svc.Set(context.Background(), SetStockInput{BeverageID: 1, QuantityLiters: -1})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()
	eventID := uint(7)

	if _, err := svc.Set(ctx, SetStockInput{BeverageID: 1, QuantityLiters: 50}); err != nil {
		t.Fatalf("set general: %v", err)
	}
	if _, err := svc.Set(ctx, SetStockInput{BeverageID: 1, EventID: &eventID, QuantityLiters: 8}); err != nil {
		t.Fatalf("set event: %v", err)
	}

	general, err := svc.Get(ctx, 1, nil)
	if err != nil {
		t.Fatalf("get general: %v", err)
	}
	scoped, err := svc.Get(ctx, 1, &eventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if general.QuantityLiters() != 50 || scoped.QuantityLiters() != 8 {
		t.Fatalf("scopes leaked: general=%v event=%v", general.QuantityLiters(), scoped.QuantityLiters())
	}

	applied, _, err := svc.Decrement(ctx, 1, 2, &eventID)
	if err != nil {
		t.Fatalf("decrement event scope: %v", err)
	}
	if !applied {
		t.Fatal("event scope is managed, decrement must apply")
	}

	general, err = svc.Get(ctx, 1, nil)
	if err != nil {
		t.Fatalf("re-get general: %v", err)
	}
	if general.QuantityLiters() != 50 {
		t.Fatalf("general scope must be untouched, got %v", general.QuantityLiters())
	}
}

func TestDecrementFloorsAtZero(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetStockInput{BeverageID: 1, QuantityLiters: 1.5}); err != nil {
		t.Fatalf("set: %v", err)
	}

	applied, level, err := svc.Decrement(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !applied {
		t.Fatal("managed scope must apply")
	}
	if level.QuantityLiters() != 0 {
		t.Fatalf("quantity must floor at zero, got %v", level.QuantityLiters())
	}
	if !level.Depleted() {
		t.Fatal("floored scope must report depleted")
	}
}

func TestDecrementUnmanagedScopeSkips(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))

	applied, level, err := svc.Decrement(context.Background(), 99, 1, nil)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if applied {
		t.Fatal("scope without a record must not apply")
	}
	if level.Managed() {
		t.Fatal("skipped decrement must return an unmanaged level")
	}
}

func TestRemoveDisablesControl(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	if _, err := svc.Set(ctx, SetStockInput{BeverageID: 1, QuantityLiters: 10}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.Remove(ctx, 1, nil); err != nil {
		t.Fatalf("remove: %v", err)
	}

	level, err := svc.Get(ctx, 1, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if level.Managed() {
		t.Fatal("removed scope must be unmanaged again")
	}

	movements, err := svc.Movements(ctx, 1, nil, 1)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 1 || movements[0].Type != enums.StockMovementTypeRemoval {
		t.Fatalf("expected removal movement, got %+v", movements)
	}
}

func TestListBelowThreshold(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	seeds := []SetStockInput{
		{BeverageID: 1, QuantityLiters: 2, LowStockThresholdLiters: 5},  // below
		{BeverageID: 2, QuantityLiters: 0, LowStockThresholdLiters: 5},  // depleted, excluded
		{BeverageID: 3, QuantityLiters: 20, LowStockThresholdLiters: 5}, // healthy
	}
	for _, seed := range seeds {
		if _, err := svc.Set(ctx, seed); err != nil {
			t.Fatalf("seed beverage %d: %v", seed.BeverageID, err)
		}
	}

	records, err := svc.ListBelowThreshold(ctx)
	if err != nil {
		t.Fatalf("list below threshold: %v", err)
	}
	if len(records) != 1 || records[0].BeverageID != 1 {
		t.Fatalf("expected only beverage 1 below threshold, got %+v", records)
	}
}
