package enums

import "fmt"

// StockMovementType classifies an entry in the stock movement audit trail.
type StockMovementType string

const (
	StockMovementTypeSale       StockMovementType = "sale"
	StockMovementTypeAdjustment StockMovementType = "adjustment"
	StockMovementTypeRemoval    StockMovementType = "removal"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementTypeSale,
	StockMovementTypeAdjustment,
	StockMovementTypeRemoval,
}

// IsValid reports whether the value matches the canonical movement type enum.
func (s StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts the raw string to StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
