package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db"
	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes beverage catalog management.
type Service interface {
	List(ctx context.Context) ([]models.BeverageType, error)
	Get(ctx context.Context, id uint) (*models.BeverageType, error)
	Create(ctx context.Context, input CreateBeverageInput) (*models.BeverageType, error)
	Update(ctx context.Context, id uint, input UpdateBeverageInput) (*models.BeverageType, error)
	Delete(ctx context.Context, id uint) error
}

// CreateBeverageInput holds the payload to register a beverage type.
type CreateBeverageInput struct {
	Name        string
	Color       string
	Description string
}

// UpdateBeverageInput carries the cosmetic fields that remain editable after
// the beverage has been referenced by sales. Nil means keep the stored value.
type UpdateBeverageInput struct {
	Name        *string
	Color       *string
	Description *string
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewService wires the catalog service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{tx: tx, repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.BeverageType, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*models.BeverageType, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateBeverageInput) (*models.BeverageType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "beverage name required")
	}

	existing, err := s.repo.FindByNameFold(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateName, "beverage name already registered").
			WithDetails(existing.Name)
	}

	beverage := &models.BeverageType{
		Name:        name,
		Color:       input.Color,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, beverage); err != nil {
		if db.IsUniqueViolation(err, "idx_beverage_types_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateName, err, "beverage name already registered")
		}
		return nil, err
	}
	return beverage, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateBeverageInput) (*models.BeverageType, error) {
	beverage, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "beverage name required")
		}
		existing, err := s.repo.FindByNameFold(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateName, "beverage name already registered").
				WithDetails(existing.Name)
		}
		beverage.Name = name
	}
	if input.Color != nil {
		beverage.Color = *input.Color
	}
	if input.Description != nil {
		beverage.Description = *input.Description
	}

	if err := s.repo.Update(ctx, beverage); err != nil {
		return nil, err
	}
	return beverage, nil
}

// Delete removes the beverage and cascades stock, price, movement and sale
// rows. It refuses while an unsettled comanda still holds sales of this
// beverage: that tab's total would silently shrink.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var openSales int64
		err := tx.WithContext(ctx).
			Model(&models.Sale{}).
			Joins("JOIN comandas ON comandas.id = sales.comanda_id").
			Where("sales.beverage_id = ?", id).
			Where("comandas.status <> ?", enums.ComandaStatusAvailable).
			Count(&openSales).Error
		if err != nil {
			return err
		}
		if openSales > 0 {
			return pkgerrors.New(pkgerrors.CodeTabHasActiveSales, "beverage referenced by unsettled comanda sales").
				WithDetails(openSales)
		}

		for _, cleanup := range []any{
			&models.StockMovement{},
			&models.StockRecord{},
			&models.PriceRecord{},
			&models.Sale{},
		} {
			if err := tx.WithContext(ctx).Where("beverage_id = ?", id).Delete(cleanup).Error; err != nil {
				return err
			}
		}

		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}
