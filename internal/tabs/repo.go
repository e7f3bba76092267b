package tabs

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

// Repository persists comandas.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, comanda *models.Comanda) error
	Update(ctx context.Context, comanda *models.Comanda) error
	FindByID(ctx context.Context, id uint) (*models.Comanda, error)
	FindByNumber(ctx context.Context, number int) (*models.Comanda, error)
	List(ctx context.Context) ([]models.Comanda, error)
	MaxNumber(ctx context.Context) (int, error)
	SalesForComanda(ctx context.Context, comandaID uint) ([]models.Sale, error)
	DetachSales(ctx context.Context, comandaID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a comanda repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, comanda *models.Comanda) error {
	return r.db.WithContext(ctx).Create(comanda).Error
}

func (r *repository) Update(ctx context.Context, comanda *models.Comanda) error {
	return r.db.WithContext(ctx).Save(comanda).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Comanda, error) {
	var comanda models.Comanda
	err := r.db.WithContext(ctx).First(&comanda, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comanda not found").WithDetails(id)
		}
		return nil, err
	}
	return &comanda, nil
}

func (r *repository) FindByNumber(ctx context.Context, number int) (*models.Comanda, error) {
	var comanda models.Comanda
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&comanda).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comanda not found").WithDetails(number)
		}
		return nil, err
	}
	return &comanda, nil
}

func (r *repository) List(ctx context.Context) ([]models.Comanda, error) {
	var comandas []models.Comanda
	err := r.db.WithContext(ctx).Order("number ASC").Find(&comandas).Error
	if err != nil {
		return nil, err
	}
	return comandas, nil
}

func (r *repository) MaxNumber(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Comanda{}).
		Select("MAX(number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) SalesForComanda(ctx context.Context, comandaID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("comanda_id = ?", comandaID).
		Order("created_at ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) DetachSales(ctx context.Context, comandaID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("comanda_id = ?", comandaID).
		Update("comanda_id", nil)
	return result.RowsAffected, result.Error
}
