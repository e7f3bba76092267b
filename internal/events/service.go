package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the time-bound sales occasions that scope stock and
// pricing overrides.
type Service interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id uint, input UpdateEventInput) (*models.Event, error)
	Get(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	// SetStatus moves the event along planning -> active -> finalized.
	SetStatus(ctx context.Context, id uint, status enums.EventStatus) (*models.Event, error)
	// Delete removes the event with its scoped stock and price rows; sales
	// keep their history and are only detached from the scope.
	Delete(ctx context.Context, id uint) error
}

// CreateEventInput is the payload to plan a new event.
type CreateEventInput struct {
	Name         string
	Location     string
	Date         time.Time
	ContactName  string
	ContactPhone string
}

// UpdateEventInput carries editable event fields. Nil keeps the stored value.
type UpdateEventInput struct {
	Name         *string
	Location     *string
	Date         *time.Time
	ContactName  *string
	ContactPhone *string
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewService wires the events service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{tx: tx, repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event name required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event date required")
	}

	event := &models.Event{
		Name:         name,
		Location:     input.Location,
		Date:         input.Date,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		Status:       enums.EventStatusPlanning,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateEventInput) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "event name required")
		}
		event.Name = name
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.ContactName != nil {
		event.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		event.ContactPhone = *input.ContactPhone
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Event, error) {
	return s.repo.List(ctx)
}

func (s *service) SetStatus(ctx context.Context, id uint, status enums.EventStatus) (*models.Event, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event status").WithDetails(status)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "event status transition disallowed").
			WithDetails(map[string]any{"from": event.Status, "to": status})
	}

	event.Status = status
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, cleanup := range []any{
			&models.StockRecord{},
			&models.PriceRecord{},
		} {
			if err := tx.WithContext(ctx).Where("event_id = ?", id).Delete(cleanup).Error; err != nil {
				return err
			}
		}

		// Sales and movements survive the event; they just lose the scope.
		for _, detach := range []any{
			&models.Sale{},
			&models.StockMovement{},
		} {
			err := tx.WithContext(ctx).
				Model(detach).
				Where("event_id = ?", id).
				Update("event_id", nil).Error
			if err != nil {
				return err
			}
		}

		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}
