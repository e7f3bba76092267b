package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

// Repository persists beverage types.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, beverage *models.BeverageType) error
	Update(ctx context.Context, beverage *models.BeverageType) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.BeverageType, error)
	FindByNameFold(ctx context.Context, name string) (*models.BeverageType, error)
	List(ctx context.Context) ([]models.BeverageType, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, beverage *models.BeverageType) error {
	return r.db.WithContext(ctx).Create(beverage).Error
}

func (r *repository) Update(ctx context.Context, beverage *models.BeverageType) error {
	return r.db.WithContext(ctx).Save(beverage).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BeverageType{}, id).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.BeverageType, error) {
	var beverage models.BeverageType
	err := r.db.WithContext(ctx).First(&beverage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnknownBeverage, "beverage not found").WithDetails(id)
		}
		return nil, err
	}
	return &beverage, nil
}

func (r *repository) FindByNameFold(ctx context.Context, name string) (*models.BeverageType, error) {
	var beverage models.BeverageType
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&beverage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &beverage, nil
}

func (r *repository) List(ctx context.Context) ([]models.BeverageType, error) {
	var beverages []models.BeverageType
	err := r.db.WithContext(ctx).
		Order("LOWER(name) ASC").
		Find(&beverages).Error
	if err != nil {
		return nil, err
	}
	return beverages, nil
}
