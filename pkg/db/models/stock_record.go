package models

import "time"

// StockRecord tracks available liters per (beverage, event scope). A NULL
// event_id is the general scope. Absence of a row means stock control is
// disabled for that scope; a row with quantity 0 means depleted. Version
// backs the compare-and-swap decrement.
type StockRecord struct {
	ID                      uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BeverageID              uint      `gorm:"column:beverage_id;not null;uniqueIndex:idx_stock_scope"`
	EventID                 *uint     `gorm:"column:event_id;uniqueIndex:idx_stock_scope"`
	QuantityLiters          float64   `gorm:"column:quantity_liters;not null;default:0"`
	LowStockThresholdLiters float64   `gorm:"column:low_stock_threshold_liters;not null;default:5"`
	Version                 int64     `gorm:"column:version;not null;default:0"`
	CreatedAt               time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockRecord) TableName() string { return "stock_records" }
