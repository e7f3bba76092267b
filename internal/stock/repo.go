package stock

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
)

// Repository persists stock records and their movement audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, beverageID uint, eventID *uint) (*models.StockRecord, error)
	Create(ctx context.Context, record *models.StockRecord) error
	Update(ctx context.Context, record *models.StockRecord) error
	Delete(ctx context.Context, beverageID uint, eventID *uint) (int64, error)
	ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error)
	RecordMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, beverageID uint, eventID *uint, limit int) ([]models.StockMovement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
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

func (r *repository) Find(ctx context.Context, beverageID uint, eventID *uint) (*models.StockRecord, error) {
	var record models.StockRecord
	err := scopeClause(r.db.WithContext(ctx), beverageID, eventID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *models.StockRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *models.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) Delete(ctx context.Context, beverageID uint, eventID *uint) (int64, error) {
	result := scopeClause(r.db.WithContext(ctx), beverageID, eventID).Delete(&models.StockRecord{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListBelowThreshold(ctx context.Context) ([]models.StockRecord, error) {
	var records []models.StockRecord
	err := r.db.WithContext(ctx).
		Where("quantity_liters > 0").
		Where("quantity_liters < low_stock_threshold_liters").
		Order("beverage_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) RecordMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, beverageID uint, eventID *uint, limit int) ([]models.StockMovement, error) {
	q := scopeClause(r.db.WithContext(ctx), beverageID, eventID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var movements []models.StockMovement
	if err := q.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
