package stock

// Level is the stock-control state for one (beverage, scope) pair. The
// distinction between an unmanaged scope (no record, sales unconditionally
// allowed) and a managed scope at zero (depleted, sales blocked) is load
// bearing; a nullable quantity never leaves this package.
type Level struct {
	managed         bool
	quantityLiters  float64
	thresholdLiters float64
	version         int64
}

// Unmanaged is the level for a scope with no stock record.
func Unmanaged() Level {
	return Level{}
}

// ManagedLevel builds a level from a stored record's fields.
func ManagedLevel(quantityLiters, thresholdLiters float64, version int64) Level {
	return Level{
		managed:         true,
		quantityLiters:  quantityLiters,
		thresholdLiters: thresholdLiters,
		version:         version,
	}
}

// Managed reports whether stock control is active for the scope.
func (l Level) Managed() bool {
	return l.managed
}

// QuantityLiters returns the available liters. Zero for unmanaged scopes;
// callers must check Managed first.
func (l Level) QuantityLiters() float64 {
	return l.quantityLiters
}

// ThresholdLiters returns the low-stock threshold for the scope.
func (l Level) ThresholdLiters() float64 {
	return l.thresholdLiters
}

// Version returns the optimistic concurrency counter of the backing record.
func (l Level) Version() int64 {
	return l.version
}

// Depleted reports a managed scope with nothing left to sell.
func (l Level) Depleted() bool {
	return l.managed && l.quantityLiters <= 0
}

// BelowThreshold reports a managed, non-depleted scope under its alert line.
func (l Level) BelowThreshold() bool {
	return l.managed && l.quantityLiters > 0 && l.quantityLiters < l.thresholdLiters
}
