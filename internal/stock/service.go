package stock

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the stock ledger.
type Service interface {
	// Get returns the control level for the scope. Unmanaged means no record
	// exists and sales pass unconditionally.
	Get(ctx context.Context, beverageID uint, eventID *uint) (Level, error)
	// Set upserts the record for the scope. A non-positive threshold falls
	// back to the configured default.
	Set(ctx context.Context, input SetStockInput) (Level, error)
	// Decrement takes liters from the scope, flooring at zero. The boolean
	// reports whether a record existed; false means control is disabled and
	// the caller proceeds unguarded.
	Decrement(ctx context.Context, beverageID uint, liters float64, eventID *uint) (bool, Level, error)
	// Remove deletes the record, disabling control for the scope.
	Remove(ctx context.Context, beverageID uint, eventID *uint) error
	// ListBelowThreshold returns active records with 0 < quantity < threshold.
	ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error)
	// Movements lists the audit trail for a scope, newest first.
	Movements(ctx context.Context, beverageID uint, eventID *uint, limit int) ([]models.StockMovement, error)
}

// SetStockInput is the upsert payload for one (beverage, scope) pair.
type SetStockInput struct {
	BeverageID              uint
	EventID                 *uint
	QuantityLiters          float64
	LowStockThresholdLiters float64
}

type service struct {
	tx               txRunner
	repo             Repository
	logg             *logger.Logger
	defaultThreshold float64
}

// NewService wires the stock ledger service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger, defaultThresholdLiters float64) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if defaultThresholdLiters < 0 {
		return nil, fmt.Errorf("default threshold must be >= 0")
	}
	return &service{
		tx:               tx,
		repo:             repo,
		logg:             logg,
		defaultThreshold: defaultThresholdLiters,
	}, nil
}

func (s *service) Get(ctx context.Context, beverageID uint, eventID *uint) (Level, error) {
	record, err := s.repo.Find(ctx, beverageID, eventID)
	if err != nil {
		return Level{}, err
	}
	if record == nil {
		return Unmanaged(), nil
	}
	return ManagedLevel(record.QuantityLiters, record.LowStockThresholdLiters, record.Version), nil
}

func (s *service) Set(ctx context.Context, input SetStockInput) (Level, error) {
	if input.BeverageID == 0 {
		return Level{}, pkgerrors.New(pkgerrors.CodeValidation, "beverage id required")
	}
	if input.QuantityLiters < 0 {
		return Level{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be >= 0")
	}
	threshold := input.LowStockThresholdLiters
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	var level Level
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.Find(ctx, input.BeverageID, input.EventID)
		if err != nil {
			return err
		}

		movement := &models.StockMovement{
			BeverageID: input.BeverageID,
			EventID:    input.EventID,
			Type:       enums.StockMovementTypeAdjustment,
		}

		if record == nil {
			record = &models.StockRecord{
				BeverageID:              input.BeverageID,
				EventID:                 input.EventID,
				QuantityLiters:          input.QuantityLiters,
				LowStockThresholdLiters: threshold,
			}
			if err := repo.Create(ctx, record); err != nil {
				return err
			}
			movement.Liters = input.QuantityLiters
			movement.QuantityAfter = input.QuantityLiters
		} else {
			movement.QuantityBefore = record.QuantityLiters
			movement.Liters = input.QuantityLiters - record.QuantityLiters
			movement.QuantityAfter = input.QuantityLiters

			record.QuantityLiters = input.QuantityLiters
			record.LowStockThresholdLiters = threshold
			record.Version++
			if err := repo.Update(ctx, record); err != nil {
				return err
			}
		}

		if err := repo.RecordMovement(ctx, movement); err != nil {
			return err
		}

		level = ManagedLevel(record.QuantityLiters, record.LowStockThresholdLiters, record.Version)
		return nil
	})
	if err != nil {
		return Level{}, err
	}
	return level, nil
}

func (s *service) Decrement(ctx context.Context, beverageID uint, liters float64, eventID *uint) (bool, Level, error) {
	if liters <= 0 {
		return false, Level{}, pkgerrors.New(pkgerrors.CodeValidation, "liters must be positive")
	}

	var result DecrementResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		results, err := DecrementForSale(ctx, tx, []DecrementRequest{{
			BeverageID: beverageID,
			EventID:    eventID,
			Liters:     liters,
		}})
		if err != nil {
			return err
		}
		result = results[0]
		return nil
	})
	if err != nil {
		return false, Level{}, err
	}
	if !result.Applied && s.logg != nil {
		s.logg.Warn(s.logg.WithBeverageID(ctx, beverageID), "stock control disabled for scope, decrement skipped")
	}
	return result.Applied, result.Level, nil
}

func (s *service) Remove(ctx context.Context, beverageID uint, eventID *uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.Find(ctx, beverageID, eventID)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}

		if _, err := repo.Delete(ctx, beverageID, eventID); err != nil {
			return err
		}

		return repo.RecordMovement(ctx, &models.StockMovement{
			BeverageID:     beverageID,
			EventID:        eventID,
			Type:           enums.StockMovementTypeRemoval,
			Liters:         -record.QuantityLiters,
			QuantityBefore: record.QuantityLiters,
			QuantityAfter:  0,
		})
	})
}

func (s *service) ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error) {
	return s.repo.ListBelowThreshold(ctx)
}

func (s *service) Movements(ctx context.Context, beverageID uint, eventID *uint, limit int) ([]models.StockMovement, error) {
	if beverageID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "beverage id required")
	}
	return s.repo.ListMovements(ctx, beverageID, eventID, limit)
}
