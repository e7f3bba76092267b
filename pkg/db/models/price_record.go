package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord holds per-container-size unit prices for a (beverage, event
// scope) pair. Same uniqueness and NULL-scope semantics as StockRecord.
type PriceRecord struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	BeverageID  uint            `gorm:"column:beverage_id;not null;uniqueIndex:idx_price_scope"`
	EventID     *uint           `gorm:"column:event_id;uniqueIndex:idx_price_scope"`
	PriceSmall  decimal.Decimal `gorm:"column:price_small;type:decimal(10,2);not null;default:0"`
	PriceMedium decimal.Decimal `gorm:"column:price_medium;type:decimal(10,2);not null;default:0"`
	PriceLarge  decimal.Decimal `gorm:"column:price_large;type:decimal(10,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (PriceRecord) TableName() string { return "price_records" }
