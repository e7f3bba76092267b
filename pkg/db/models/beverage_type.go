package models

import "time"

// BeverageType is the catalog entry for a sellable beverage. The id is
// permanent once referenced by a sale; name, color and description stay
// editable.
type BeverageType struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Color       string    `gorm:"column:color;not null;default:''"`
	Description string    `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table in sync with the goose schema.
func (BeverageType) TableName() string { return "beverage_types" }
