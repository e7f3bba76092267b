package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/pagination"
)

// Filter narrows an aggregation to a date range, an event scope, or one
// comanda. Nil fields mean no filtering on that axis.
type Filter struct {
	Start     *time.Time
	End       *time.Time
	EventID   *uint
	ComandaID *uint
}

// Summary is the headline aggregate over committed sales.
type Summary struct {
	TotalSaleCount    int64   `json:"total_sale_count"`
	TotalCupsSold     int64   `json:"total_cups_sold"`
	TotalVolumeLiters float64 `json:"total_volume_liters"`
}

// ContainerSizeRow is the per-size breakdown.
type ContainerSizeRow struct {
	Size         enums.ContainerSize `json:"size"`
	CupsSold     int64               `json:"cups_sold"`
	VolumeLiters float64             `json:"volume_liters"`
}

// BeverageRow is the per-beverage breakdown, revenue included. Revenue uses
// the unit price snapshotted on each sale, so later price edits never rewrite
// history.
type BeverageRow struct {
	BeverageID   uint            `json:"beverage_id"`
	BeverageName string          `json:"beverage_name"`
	CupsSold     int64           `json:"cups_sold"`
	VolumeLiters float64         `json:"volume_liters"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// HistoryResult wraps a page of raw sale rows plus the next-page cursor.
type HistoryResult struct {
	Items  []models.Sale `json:"items"`
	Cursor string        `json:"cursor"`
}

// Service aggregates committed sales. Read-only; always safe to call
// repeatedly, and a store with zero sales yields zeroed aggregates.
type Service interface {
	Summary(ctx context.Context, filter Filter) (*Summary, error)
	ByContainerSize(ctx context.Context, filter Filter) ([]ContainerSizeRow, error)
	ByBeverage(ctx context.Context, filter Filter) ([]BeverageRow, error)
	ByEvent(ctx context.Context, eventID uint, filter Filter) ([]BeverageRow, error)
	ByComanda(ctx context.Context, comandaID uint, filter Filter) ([]BeverageRow, error)
	History(ctx context.Context, params pagination.Params, filter Filter) (*HistoryResult, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the reporting aggregator over the shared connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) scoped(ctx context.Context, filter Filter) (*gorm.DB, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}

	q := s.db.WithContext(ctx).Model(&models.Sale{})
	if filter.Start != nil {
		q = q.Where("created_at >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		q = q.Where("created_at <= ?", filter.End.UTC())
	}
	if filter.EventID != nil {
		q = q.Where("event_id = ?", *filter.EventID)
	}
	if filter.ComandaID != nil {
		q = q.Where("comanda_id = ?", *filter.ComandaID)
	}
	return q, nil
}

func (s *service) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	q, err := s.scoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	var row struct {
		SaleCount   int64
		CupsSold    int64
		TotalVolume float64
	}
	err = q.Select(
		"COUNT(*) AS sale_count, " +
			"COALESCE(SUM(quantity), 0) AS cups_sold, " +
			"COALESCE(SUM(total_volume_ml), 0) AS total_volume",
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalSaleCount:    row.SaleCount,
		TotalCupsSold:     row.CupsSold,
		TotalVolumeLiters: row.TotalVolume / 1000,
	}, nil
}

func (s *service) ByContainerSize(ctx context.Context, filter Filter) ([]ContainerSizeRow, error) {
	q, err := s.scoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Size        string
		CupsSold    int64
		TotalVolume float64
	}
	err = q.Select(
		"container_size_ml AS size, " +
			"COALESCE(SUM(quantity), 0) AS cups_sold, " +
			"COALESCE(SUM(total_volume_ml), 0) AS total_volume",
	).
		Group("container_size_ml").
		Order("container_size_ml ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]ContainerSizeRow, 0, len(rows))
	for _, row := range rows {
		size, err := enums.ParseContainerSize(row.Size)
		if err != nil {
			return nil, err
		}
		result = append(result, ContainerSizeRow{
			Size:         size,
			CupsSold:     row.CupsSold,
			VolumeLiters: row.TotalVolume / 1000,
		})
	}
	return result, nil
}

func (s *service) ByBeverage(ctx context.Context, filter Filter) ([]BeverageRow, error) {
	q, err := s.scoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		BeverageID   uint
		BeverageName string
		CupsSold     int64
		TotalVolume  float64
		Revenue      decimal.Decimal
	}
	err = q.Select(
		"beverage_id, beverage_name, " +
			"COALESCE(SUM(quantity), 0) AS cups_sold, " +
			"COALESCE(SUM(total_volume_ml), 0) AS total_volume, " +
			"COALESCE(SUM(quantity * unit_price), 0) AS revenue",
	).
		Group("beverage_id, beverage_name").
		Order("beverage_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]BeverageRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, BeverageRow{
			BeverageID:   row.BeverageID,
			BeverageName: row.BeverageName,
			CupsSold:     row.CupsSold,
			VolumeLiters: row.TotalVolume / 1000,
			Revenue:      row.Revenue,
		})
	}
	return result, nil
}

func (s *service) ByEvent(ctx context.Context, eventID uint, filter Filter) ([]BeverageRow, error) {
	if eventID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	filter.EventID = &eventID
	return s.ByBeverage(ctx, filter)
}

func (s *service) ByComanda(ctx context.Context, comandaID uint, filter Filter) ([]BeverageRow, error) {
	if comandaID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comanda id required")
	}
	filter.ComandaID = &comandaID
	return s.ByBeverage(ctx, filter)
}

func (s *service) History(ctx context.Context, params pagination.Params, filter Filter) (*HistoryResult, error) {
	q, err := s.scoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		if cursor != nil {
			q = q.Where(
				"(created_at < ?) OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
	}

	var items []models.Sale
	err = q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	result := &HistoryResult{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	result.Items = items
	return result, nil
}
