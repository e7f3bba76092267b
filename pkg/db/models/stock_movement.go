package models

import (
	"time"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

// StockMovement records every change applied to a stock record. Rows are
// immutable; they are written in the same transaction as the mutation they
// describe.
type StockMovement struct {
	ID             uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	BeverageID     uint                    `gorm:"column:beverage_id;not null;index"`
	EventID        *uint                   `gorm:"column:event_id"`
	Type           enums.StockMovementType `gorm:"column:type;not null"`
	Liters         float64                 `gorm:"column:liters;not null"`
	QuantityBefore float64                 `gorm:"column:quantity_before;not null"`
	QuantityAfter  float64                 `gorm:"column:quantity_after;not null"`
	SaleID         *uint                   `gorm:"column:sale_id"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (StockMovement) TableName() string { return "stock_movements" }
