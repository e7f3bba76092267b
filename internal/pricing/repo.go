package pricing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
)

// Repository persists price records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, beverageID uint, eventID *uint) (*models.PriceRecord, error)
	Create(ctx context.Context, record *models.PriceRecord) error
	Update(ctx context.Context, record *models.PriceRecord) error
	Delete(ctx context.Context, beverageID uint, eventID *uint) (int64, error)
	ListAll(ctx context.Context) ([]models.PriceRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func scopeClause(q *gorm.DB, beverageID uint, eventID *uint) *gorm.DB {
	q = q.Where("beverage_id = ?", beverageID)
	if eventID == nil {
		return q.Where("event_id IS NULL")
	}
	return q.Where("event_id = ?", *eventID)
}

func (r *repository) Find(ctx context.Context, beverageID uint, eventID *uint) (*models.PriceRecord, error) {
	var record models.PriceRecord
	err := scopeClause(r.db.WithContext(ctx), beverageID, eventID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *models.PriceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *models.PriceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, beverageID uint, eventID *uint) (int64, error) {
	result := scopeClause(r.db.WithContext(ctx), beverageID, eventID).Delete(&models.PriceRecord{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListAll(ctx context.Context) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	err := r.db.WithContext(ctx).
		Order("beverage_id ASC, event_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
