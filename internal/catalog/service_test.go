package catalog

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
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.BeverageType{},
		&models.StockRecord{},
		&models.StockMovement{},
		&models.PriceRecord{},
		&models.Comanda{},
		&models.Sale{},
	)
	if err != nil {
		t.Fatalf("migrate tables: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	client, err := db.NewWithConn(conn)
	if err != nil {
		t.Fatalf("wrap connection: %v", err)
	}
	svc, err := NewService(client, NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBeverageInput{Name: "  IPA ", Color: "#f5a623"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "IPA" {
		t.Fatalf("name must be trimmed, got %q", created.Name)
	}

	loaded, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "IPA" || loaded.Color != "#f5a623" {
		t.Fatalf("unexpected beverage: %+v", loaded)
	}
}

func TestCreateRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateBeverageInput{Name: "Pilsner"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, CreateBeverageInput{Name: "pilsner"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))

	_, err := svc.Create(context.Background(), CreateBeverageInput{Name: "   "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownBeverage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))

	_, err := svc.Get(context.Background(), 999)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnknownBeverage) {
		t.Fatalf("expected unknown beverage error, got %v", err)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBeverageInput{Name: "Stout", Color: "#000000", Description: "dark"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Imperial Stout"
	updated, err := svc.Update(ctx, created.ID, UpdateBeverageInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Imperial Stout" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
	if updated.Color != "#000000" || updated.Description != "dark" {
		t.Fatalf("unset fields must be preserved: %+v", updated)
	}
}

func TestUpdateRejectsNameCollision(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateBeverageInput{Name: "Lager"}); err != nil {
		t.Fatalf("create lager: %v", err)
	}
	second, err := svc.Create(ctx, CreateBeverageInput{Name: "Witbier"})
	if err != nil {
		t.Fatalf("create witbier: %v", err)
	}

	collision := "LAGER"
	_, err = svc.Update(ctx, second.ID, UpdateBeverageInput{Name: &collision})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestDeleteCascadesDependentRows(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBeverageInput{Name: "Weiss"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	seeds := []any{
		&models.StockRecord{BeverageID: created.ID, QuantityLiters: 10},
		&models.StockMovement{BeverageID: created.ID, Liters: 10, QuantityAfter: 10},
		&models.PriceRecord{BeverageID: created.ID},
		&models.Sale{BeverageID: created.ID, BeverageName: "Weiss", ContainerSizeML: enums.ContainerSizeSmall, Quantity: 1, TotalVolumeML: 300, ActorID: uuid.New()},
	}
	for _, seed := range seeds {
		if err := conn.Create(seed).Error; err != nil {
			t.Fatalf("seed %T: %v", seed, err)
		}
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, model := range []any{
		&models.BeverageType{},
		&models.StockRecord{},
		&models.StockMovement{},
		&models.PriceRecord{},
		&models.Sale{},
	} {
		var count int64
		if err := conn.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if count != 0 {
			t.Fatalf("expected %T rows removed, found %d", model, count)
		}
	}
}

func TestDeleteRefusedWhileTabHoldsSales(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBeverageInput{Name: "Porter"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	comanda := &models.Comanda{Number: 1, Status: enums.ComandaStatusInUse}
	if err := conn.Create(comanda).Error; err != nil {
		t.Fatalf("seed comanda: %v", err)
	}
	sale := &models.Sale{
		BeverageID:      created.ID,
		BeverageName:    "Porter",
		ContainerSizeML: enums.ContainerSizeLarge,
		Quantity:        2,
		TotalVolumeML:   2000,
		ComandaID:       &comanda.ID,
		ActorID:         uuid.New(),
	}
	if err := conn.Create(sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeTabHasActiveSales) {
		t.Fatalf("expected tab-has-active-sales error, got %v", err)
	}

	// Refusal must leave everything in place.
	var count int64
	if err := conn.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if count != 1 {
		t.Fatalf("refused delete must not remove sales, found %d", count)
	}
}

func TestListOrdersByNameFold(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"zywiec", "Amber", "brown ale"} {
		if _, err := svc.Create(ctx, CreateBeverageInput{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	beverages, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, 0, len(beverages))
	for _, b := range beverages {
		got = append(got, b.Name)
	}
	want := []string{"Amber", "brown ale", "zywiec"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}
}
