package models

import (
	"time"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

// Event is a time-bound sales occasion that can carry its own stock and
// pricing overrides. Deleting an event removes its scoped stock and price
// rows but only detaches sales (event_id set to NULL).
type Event struct {
	ID           uint              `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string            `gorm:"column:name;not null"`
	Location     string            `gorm:"column:location;not null;default:''"`
	Date         time.Time         `gorm:"column:date;not null"`
	ContactName  string            `gorm:"column:contact_name;not null;default:''"`
	ContactPhone string            `gorm:"column:contact_phone;not null;default:''"`
	Status       enums.EventStatus `gorm:"column:status;not null;default:'planning'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Event) TableName() string { return "events" }
