package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

// Sale is one committed line item. Rows are immutable after commit except for
// ComandaID, which is cleared when the tab is settled. BeverageName and
// UnitPrice are snapshots taken at commit time so historical reports stay
// stable across catalog renames and price edits.
type Sale struct {
	ID              uint                `gorm:"column:id;primaryKey;autoIncrement"`
	BeverageID      uint                `gorm:"column:beverage_id;not null;index"`
	BeverageName    string              `gorm:"column:beverage_name;not null"`
	ContainerSizeML enums.ContainerSize `gorm:"column:container_size_ml;not null"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	TotalVolumeML   float64             `gorm:"column:total_volume_ml;not null"`
	UnitPrice       decimal.Decimal     `gorm:"column:unit_price;type:decimal(10,2);not null;default:0"`
	ComandaID       *uint               `gorm:"column:comanda_id;index"`
	ActorID         uuid.UUID           `gorm:"column:actor_id;type:uuid;not null"`
	EventID         *uint               `gorm:"column:event_id;index"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Sale) TableName() string { return "sales" }
