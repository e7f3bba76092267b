package stock

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

// DecrementRequest asks for liters to be taken from a (beverage, scope) pair
// as part of a committed sale.
type DecrementRequest struct {
	BeverageID uint
	EventID    *uint
	Liters     float64
	SaleID     *uint
}

// DecrementResult reports the outcome for one request. Applied is false when
// the scope is unmanaged; the sale proceeds unguarded and the caller only
// logs the signal.
type DecrementResult struct {
	BeverageID uint
	EventID    *uint
	Applied    bool
	Level      Level
}

// DecrementForSale applies the requested decrements inside the caller's
// transaction. Quantities floor at zero. Each applied decrement does a
// compare-and-swap on the record version; a lost race surfaces as a retryable
// CONFLICT so the caller can re-validate and retry the whole commit.
func DecrementForSale(ctx context.Context, tx *gorm.DB, requests []DecrementRequest) ([]DecrementResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}

	results := make([]DecrementResult, 0, len(requests))
	for _, req := range requests {
		if req.Liters <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "liters must be positive").
				WithDetails(req)
		}

		var record models.StockRecord
		err := scopeClause(tx.WithContext(ctx), req.BeverageID, req.EventID).First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				results = append(results, DecrementResult{
					BeverageID: req.BeverageID,
					EventID:    req.EventID,
					Applied:    false,
					Level:      Unmanaged(),
				})
				continue
			}
			return nil, err
		}

		after := record.QuantityLiters - req.Liters
		if after < 0 {
			after = 0
		}

		update := tx.WithContext(ctx).
			Model(&models.StockRecord{}).
			Where("id = ? AND version = ?", record.ID, record.Version).
			Updates(map[string]any{
				"quantity_liters": after,
				"version":         record.Version + 1,
				"updated_at":      time.Now().UTC(),
			})
		if update.Error != nil {
			return nil, update.Error
		}
		if update.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock record changed during commit").
				WithDetails(req.BeverageID)
		}

		movement := &models.StockMovement{
			BeverageID:     req.BeverageID,
			EventID:        req.EventID,
			Type:           enums.StockMovementTypeSale,
			Liters:         -req.Liters,
			QuantityBefore: record.QuantityLiters,
			QuantityAfter:  after,
			SaleID:         req.SaleID,
		}
		if err := tx.WithContext(ctx).Create(movement).Error; err != nil {
			return nil, err
		}

		results = append(results, DecrementResult{
			BeverageID: req.BeverageID,
			EventID:    req.EventID,
			Applied:    true,
			Level:      ManagedLevel(after, record.LowStockThresholdLiters, record.Version+1),
		})
	}
	return results, nil
}
