package enums

import "fmt"

// ComandaStatus describes the lifecycle state of a numbered customer tab.
type ComandaStatus string

const (
	ComandaStatusAvailable       ComandaStatus = "available"
	ComandaStatusInUse           ComandaStatus = "in_use"
	ComandaStatusAwaitingPayment ComandaStatus = "awaiting_payment"
)

var validComandaStatuses = []ComandaStatus{
	ComandaStatusAvailable,
	ComandaStatusInUse,
	ComandaStatusAwaitingPayment,
}

// IsValid reports whether the value matches the canonical comanda status enum.
func (c ComandaStatus) IsValid() bool {
	for _, candidate := range validComandaStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComandaStatus converts the raw string to ComandaStatus.
func ParseComandaStatus(value string) (ComandaStatus, error) {
	for _, candidate := range validComandaStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid comanda status %q", value)
}
