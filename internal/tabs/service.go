package tabs

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the comanda lifecycle: available -> in_use ->
// awaiting_payment -> available, with the same number reused each cycle.
type Service interface {
	// Provision seeds numbered comandas up to count. Existing numbers are
	// kept; the call is idempotent.
	Provision(ctx context.Context, count int) (int, error)
	Get(ctx context.Context, id uint) (*models.Comanda, error)
	GetByNumber(ctx context.Context, number int) (*models.Comanda, error)
	List(ctx context.Context) ([]models.Comanda, error)
	// Open hands the numbered comanda to a customer. Valid only from available.
	Open(ctx context.Context, number int) (*models.Comanda, error)
	// Close totals the attached sales and moves the comanda to
	// awaiting_payment. Valid only from in_use.
	Close(ctx context.Context, id uint) (*models.Comanda, error)
	// ConfirmPayment settles the comanda: total reset, timestamps cleared,
	// attached sales detached, status back to available.
	ConfirmPayment(ctx context.Context, id uint) (*models.Comanda, error)
	// RunningTotal recomputes the current total from the attached sales.
	RunningTotal(ctx context.Context, id uint) (decimal.Decimal, error)
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewService wires the comanda service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("comanda repository required")
	}
	return &service{tx: tx, repo: repo, logg: logg}, nil
}

func (s *service) Provision(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "provision count must be positive")
	}

	created := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		highest, err := repo.MaxNumber(ctx)
		if err != nil {
			return err
		}
		for number := highest + 1; number <= count; number++ {
			comanda := &models.Comanda{
				Number:       number,
				Status:       enums.ComandaStatusAvailable,
				RunningTotal: decimal.Zero,
			}
			if err := repo.Create(ctx, comanda); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Comanda, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, number int) (*models.Comanda, error) {
	return s.repo.FindByNumber(ctx, number)
}

func (s *service) List(ctx context.Context) ([]models.Comanda, error) {
	return s.repo.List(ctx)
}

func (s *service) Open(ctx context.Context, number int) (*models.Comanda, error) {
	var opened *models.Comanda
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		comanda, err := repo.FindByNumber(ctx, number)
		if err != nil {
			return err
		}
		if comanda.Status != enums.ComandaStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "comanda is not available").
				WithDetails(string(comanda.Status))
		}

		now := time.Now().UTC()
		comanda.Status = enums.ComandaStatusInUse
		comanda.OpenedAt = &now
		if err := repo.Update(ctx, comanda); err != nil {
			return err
		}
		opened = comanda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

func (s *service) Close(ctx context.Context, id uint) (*models.Comanda, error) {
	var closed *models.Comanda
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		comanda, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if comanda.Status != enums.ComandaStatusInUse {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "comanda is not in use").
				WithDetails(string(comanda.Status))
		}

		total, err := totalForComanda(ctx, repo, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		comanda.Status = enums.ComandaStatusAwaitingPayment
		comanda.ClosedAt = &now
		comanda.RunningTotal = total
		if err := repo.Update(ctx, comanda); err != nil {
			return err
		}
		closed = comanda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *service) ConfirmPayment(ctx context.Context, id uint) (*models.Comanda, error) {
	var settled *models.Comanda
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		comanda, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if comanda.Status != enums.ComandaStatusAwaitingPayment {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "comanda is not awaiting payment").
				WithDetails(string(comanda.Status))
		}

		detached, err := repo.DetachSales(ctx, id)
		if err != nil {
			return err
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"comanda_number": comanda.Number,
				"detached_sales": detached,
			}), "comanda settled")
		}

		now := time.Now().UTC()
		comanda.Status = enums.ComandaStatusAvailable
		comanda.RunningTotal = decimal.Zero
		comanda.OpenedAt = nil
		comanda.ClosedAt = nil
		comanda.PaidAt = &now
		if err := repo.Update(ctx, comanda); err != nil {
			return err
		}
		settled = comanda
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func (s *service) RunningTotal(ctx context.Context, id uint) (decimal.Decimal, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return decimal.Zero, err
	}
	return totalForComanda(ctx, s.repo, id)
}

// totalForComanda sums quantity times the unit price snapshotted on each
// attached sale.
func totalForComanda(ctx context.Context, repo Repository, comandaID uint) (decimal.Decimal, error) {
	sales, err := repo.SalesForComanda(ctx, comandaID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity))))
	}
	return total, nil
}
