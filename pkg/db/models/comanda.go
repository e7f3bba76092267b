package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

// Comanda is a numbered, reusable customer tab. Number is assigned once at
// provisioning time and survives every open/close/pay cycle. RunningTotal is
// a derived cache; the attached sales remain the source of truth.
type Comanda struct {
	ID           uint                `gorm:"column:id;primaryKey;autoIncrement"`
	Number       int                 `gorm:"column:number;not null;uniqueIndex"`
	Status       enums.ComandaStatus `gorm:"column:status;not null;default:'available'"`
	RunningTotal decimal.Decimal     `gorm:"column:running_total;type:decimal(10,2);not null;default:0"`
	OpenedAt     *time.Time          `gorm:"column:opened_at"`
	ClosedAt     *time.Time          `gorm:"column:closed_at"`
	PaidAt       *time.Time          `gorm:"column:paid_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Comanda) TableName() string { return "comandas" }
