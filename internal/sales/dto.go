package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbarra/chopp-pos/pkg/enums"
)

// CartLine is one prospective sale line: a beverage, a container size, and
// how many servings.
type CartLine struct {
	BeverageID uint                `validate:"required"`
	Size       enums.ContainerSize `validate:"required"`
	Quantity   int                 `validate:"required,gt=0"`
}

// LitersNeeded is the stock this line would consume.
func (l CartLine) LitersNeeded() float64 {
	return l.Size.VolumeML() * float64(l.Quantity) / 1000
}

// LineValidation is the verdict for one cart line. Err is nil when the line
// may be sold; otherwise it carries the typed refusal.
type LineValidation struct {
	Line         CartLine
	BeverageName string
	UnitPrice    decimal.Decimal
	LitersNeeded float64
	Err          error
}

// InsufficientStockDetails is attached to INSUFFICIENT_STOCK errors so the
// caller can build a user-facing message. It is informational, never matched
// on.
type InsufficientStockDetails struct {
	BeverageID      uint    `json:"beverage_id"`
	BeverageName    string  `json:"beverage_name"`
	LitersRequested float64 `json:"liters_requested"`
	LitersAvailable float64 `json:"liters_available"`
	ShortfallLiters float64 `json:"shortfall_liters"`
}

// CartValidation is the side-effect-free verdict for a whole cart.
type CartValidation struct {
	Lines         []LineValidation
	TotalVolumeML float64
	TotalPrice    decimal.Decimal
}

// OK reports whether every line passed.
func (v CartValidation) OK() bool {
	for _, line := range v.Lines {
		if line.Err != nil {
			return false
		}
	}
	return true
}

// CommitInput identifies who sells what, under which scope, to which tab.
type CommitInput struct {
	Lines     []CartLine
	ActorID   uuid.UUID
	EventID   *uint
	ComandaID *uint
}

// LowStockAlert is raised after a commit leaves a managed scope under its
// threshold. It is a structured signal for the UI collaborator; the engine
// never formats user-facing strings.
type LowStockAlert struct {
	BeverageID      uint
	BeverageName    string
	EventID         *uint
	QuantityLiters  float64
	ThresholdLiters float64
}

// CommitResult reports a successful commit: created sale ids in cart line
// order, cart totals, and any low-stock alerts.
type CommitResult struct {
	SaleIDs       []uint
	TotalVolumeML float64
	TotalPrice    decimal.Decimal
	Alerts        []LowStockAlert
}
