package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the price book.
type Service interface {
	Get(ctx context.Context, beverageID uint, eventID *uint) (*models.PriceRecord, error)
	Set(ctx context.Context, input SetPriceInput) (*models.PriceRecord, error)
	Remove(ctx context.Context, beverageID uint, eventID *uint) error
	ListAll(ctx context.Context) ([]models.PriceRecord, error)
	// UnitPrice resolves the configured price for one container size. The
	// boolean is false when no record exists for the scope or the size has no
	// positive price; policy handling is the caller's concern.
	UnitPrice(ctx context.Context, beverageID uint, size enums.ContainerSize, eventID *uint) (decimal.Decimal, bool, error)
}

// SetPriceInput is the upsert payload for one (beverage, scope) pair.
type SetPriceInput struct {
	BeverageID  uint
	EventID     *uint
	PriceSmall  decimal.Decimal
	PriceMedium decimal.Decimal
	PriceLarge  decimal.Decimal
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService wires the price book service.
func NewService(tx txRunner, repo Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

func (s *service) Get(ctx context.Context, beverageID uint, eventID *uint) (*models.PriceRecord, error) {
	return s.repo.Find(ctx, beverageID, eventID)
}

func (s *service) Set(ctx context.Context, input SetPriceInput) (*models.PriceRecord, error) {
	if input.BeverageID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "beverage id required")
	}
	for _, price := range []decimal.Decimal{input.PriceSmall, input.PriceMedium, input.PriceLarge} {
		if price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be >= 0")
		}
	}

	var record *models.PriceRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.Find(ctx, input.BeverageID, input.EventID)
		if err != nil {
			return err
		}
		if existing == nil {
			record = &models.PriceRecord{
				BeverageID:  input.BeverageID,
				EventID:     input.EventID,
				PriceSmall:  input.PriceSmall,
				PriceMedium: input.PriceMedium,
				PriceLarge:  input.PriceLarge,
			}
			return repo.Create(ctx, record)
		}

		existing.PriceSmall = input.PriceSmall
		existing.PriceMedium = input.PriceMedium
		existing.PriceLarge = input.PriceLarge
		record = existing
		return repo.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Remove(ctx context.Context, beverageID uint, eventID *uint) error {
	_, err := s.repo.Delete(ctx, beverageID, eventID)
	return err
}

func (s *service) ListAll(ctx context.Context) ([]models.PriceRecord, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UnitPrice(ctx context.Context, beverageID uint, size enums.ContainerSize, eventID *uint) (decimal.Decimal, bool, error) {
	if !size.IsValid() {
		return decimal.Zero, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid container size").WithDetails(size)
	}
	record, err := s.repo.Find(ctx, beverageID, eventID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if record == nil {
		return decimal.Zero, false, nil
	}
	price := PriceForSize(record, size)
	return price, price.IsPositive(), nil
}

// PriceForSize picks the stored unit price for a container size.
func PriceForSize(record *models.PriceRecord, size enums.ContainerSize) decimal.Decimal {
	if record == nil {
		return decimal.Zero
	}
	switch size {
	case enums.ContainerSizeSmall:
		return record.PriceSmall
	case enums.ContainerSizeMedium:
		return record.PriceMedium
	case enums.ContainerSizeLarge:
		return record.PriceLarge
	default:
		return decimal.Zero
	}
}
