package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/internal/catalog"
	"github.com/openbarra/chopp-pos/internal/pricing"
	"github.com/openbarra/chopp-pos/internal/stock"
	"github.com/openbarra/chopp-pos/internal/tabs"
	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
	"github.com/openbarra/chopp-pos/pkg/logger"
	"github.com/openbarra/chopp-pos/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Engine validates carts against live stock and pricing, and commits them as
// a single transactional unit.
type Engine interface {
	// ValidateCart predicts whether the cart could be committed right now. It
	// is idempotent and never mutates state.
	ValidateCart(ctx context.Context, lines []CartLine, eventID *uint) (*CartValidation, error)
	// Commit re-validates and persists the cart: one sale row per line in
	// cart order, stock decremented, the target comanda opened when needed.
	// All of it commits or none of it does.
	Commit(ctx context.Context, input CommitInput) (*CommitResult, error)
}

// Notifier receives low-stock signals for the UI collaborator to render.
type Notifier interface {
	LowStock(ctx context.Context, alert LowStockAlert)
}

// Options tunes engine policy.
type Options struct {
	// MissingPricePolicy decides whether an unpriced line is refused or sold
	// at zero.
	MissingPricePolicy enums.PricePolicy
	// CommitRetryAttempts bounds how many times a commit is retried after a
	// stock version conflict.
	CommitRetryAttempts uint64
}

type engine struct {
	tx          txRunner
	catalogRepo catalog.Repository
	stockRepo   stock.Repository
	priceRepo   pricing.Repository
	salesRepo   Repository
	notifier    Notifier
	logg        *logger.Logger
	instruments *metrics.SaleMetrics
	validate    *validator.Validate
	opts        Options
}

// NewEngine wires the sale transaction engine. The notifier, logger and
// metrics may be nil.
func NewEngine(
	tx txRunner,
	catalogRepo catalog.Repository,
	stockRepo stock.Repository,
	priceRepo pricing.Repository,
	salesRepo Repository,
	notifier Notifier,
	logg *logger.Logger,
	instruments *metrics.SaleMetrics,
	opts Options,
) (Engine, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if priceRepo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if !opts.MissingPricePolicy.IsValid() {
		opts.MissingPricePolicy = enums.PricePolicyReject
	}
	if opts.CommitRetryAttempts == 0 {
		opts.CommitRetryAttempts = 3
	}
	return &engine{
		tx:          tx,
		catalogRepo: catalogRepo,
		stockRepo:   stockRepo,
		priceRepo:   priceRepo,
		salesRepo:   salesRepo,
		notifier:    notifier,
		logg:        logg,
		instruments: instruments,
		validate:    validator.New(),
		opts:        opts,
	}, nil
}

func (e *engine) ValidateCart(ctx context.Context, lines []CartLine, eventID *uint) (*CartValidation, error) {
	return e.validateCart(ctx, e.catalogRepo, e.stockRepo, e.priceRepo, lines, eventID)
}

// validateCart runs the full pre-commit check against the provided
// repository views, so Commit can re-run it against its own transaction.
func (e *engine) validateCart(
	ctx context.Context,
	catalogRepo catalog.Repository,
	stockRepo stock.Repository,
	priceRepo pricing.Repository,
	lines []CartLine,
	eventID *uint,
) (*CartValidation, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	result := &CartValidation{
		Lines:      make([]LineValidation, 0, len(lines)),
		TotalPrice: decimal.Zero,
	}

	beverageCache := map[uint]*models.BeverageType{}
	levelCache := map[uint]stock.Level{}
	priceCache := map[uint]*models.PriceRecord{}
	reservedLiters := map[uint]float64{}

	for _, line := range lines {
		verdict := LineValidation{Line: line, LitersNeeded: line.LitersNeeded()}

		if err := e.validate.Struct(line); err != nil {
			verdict.Err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart line")
			result.Lines = append(result.Lines, verdict)
			continue
		}
		if !line.Size.IsValid() {
			verdict.Err = pkgerrors.New(pkgerrors.CodeValidation, "invalid container size").WithDetails(line.Size)
			result.Lines = append(result.Lines, verdict)
			continue
		}

		beverage, ok := beverageCache[line.BeverageID]
		if !ok {
			var err error
			beverage, err = catalogRepo.FindByID(ctx, line.BeverageID)
			if err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnknownBeverage {
					verdict.Err = err
					result.Lines = append(result.Lines, verdict)
					continue
				}
				return nil, err
			}
			beverageCache[line.BeverageID] = beverage
		}
		verdict.BeverageName = beverage.Name

		level, ok := levelCache[line.BeverageID]
		if !ok {
			record, err := stockRepo.Find(ctx, line.BeverageID, eventID)
			if err != nil {
				return nil, err
			}
			if record == nil {
				level = stock.Unmanaged()
			} else {
				level = stock.ManagedLevel(record.QuantityLiters, record.LowStockThresholdLiters, record.Version)
			}
			levelCache[line.BeverageID] = level
		}

		if level.Managed() {
			if level.Depleted() {
				verdict.Err = pkgerrors.New(pkgerrors.CodeStockDepleted, "no stock left for beverage").
					WithDetails(beverage.Name)
				result.Lines = append(result.Lines, verdict)
				continue
			}
			// Liters are reserved cumulatively across the cart: multiple
			// lines of the same beverage share one stock pool.
			cumulative := reservedLiters[line.BeverageID] + verdict.LitersNeeded
			if cumulative > level.QuantityLiters() {
				verdict.Err = pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for cart").
					WithDetails(InsufficientStockDetails{
						BeverageID:      line.BeverageID,
						BeverageName:    beverage.Name,
						LitersRequested: cumulative,
						LitersAvailable: level.QuantityLiters(),
						ShortfallLiters: cumulative - level.QuantityLiters(),
					})
				result.Lines = append(result.Lines, verdict)
				continue
			}
			reservedLiters[line.BeverageID] = cumulative
		}

		priceRecord, ok := priceCache[line.BeverageID]
		if !ok {
			var err error
			priceRecord, err = priceRepo.Find(ctx, line.BeverageID, eventID)
			if err != nil {
				return nil, err
			}
			priceCache[line.BeverageID] = priceRecord
		}
		unitPrice := pricing.PriceForSize(priceRecord, line.Size)
		if !unitPrice.IsPositive() {
			if e.opts.MissingPricePolicy == enums.PricePolicyReject {
				verdict.Err = pkgerrors.New(pkgerrors.CodePriceNotConfigured, "no price configured for container size").
					WithDetails(map[string]any{"beverage": beverage.Name, "size": line.Size})
				result.Lines = append(result.Lines, verdict)
				continue
			}
			unitPrice = decimal.Zero
		}
		verdict.UnitPrice = unitPrice

		result.TotalVolumeML += line.Size.VolumeML() * float64(line.Quantity)
		result.TotalPrice = result.TotalPrice.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		result.Lines = append(result.Lines, verdict)
	}

	return result, nil
}

// Err combines every line refusal into one error, nil when the cart passed.
func (v *CartValidation) Err() error {
	if v == nil {
		return nil
	}
	var errs []error
	for _, line := range v.Lines {
		if line.Err != nil {
			errs = append(errs, line.Err)
		}
	}
	return multierr.Combine(errs...)
}

func (e *engine) Commit(ctx context.Context, input CommitInput) (*CommitResult, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	started := time.Now()
	scope := "general"
	if input.EventID != nil {
		scope = "event"
	}

	var result *CommitResult
	backoff := retry.WithMaxRetries(e.opts.CommitRetryAttempts, retry.NewFibonacci(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		committed, err := e.commitOnce(ctx, input)
		if err != nil {
			// A stock version conflict means another commit landed between
			// our validation and decrement; re-validate and try again.
			if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = committed
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			e.instruments.IncRejected(string(typed.Code()))
		}
		return nil, err
	}

	e.instruments.ObserveCommitDuration(scope, time.Since(started))
	e.instruments.AddCommitted(scope, len(result.SaleIDs))

	for _, alert := range result.Alerts {
		e.instruments.IncLowStockAlert()
		if e.notifier != nil {
			e.notifier.LowStock(ctx, alert)
		}
	}
	return result, nil
}

func (e *engine) commitOnce(ctx context.Context, input CommitInput) (*CommitResult, error) {
	var result *CommitResult
	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalogRepo.WithTx(tx)
		stockRepo := e.stockRepo.WithTx(tx)
		priceRepo := e.priceRepo.WithTx(tx)
		salesRepo := e.salesRepo.WithTx(tx)

		// Defense against state drift since the caller's ValidateCart: the
		// commit is only as good as the snapshot it is checked against.
		validation, err := e.validateCart(ctx, catalogRepo, stockRepo, priceRepo, input.Lines, input.EventID)
		if err != nil {
			return err
		}
		if err := validation.Err(); err != nil {
			return err
		}

		saleIDs := make([]uint, 0, len(validation.Lines))
		requests := make([]stock.DecrementRequest, 0, len(validation.Lines))
		for _, line := range validation.Lines {
			sale := &models.Sale{
				BeverageID:      line.Line.BeverageID,
				BeverageName:    line.BeverageName,
				ContainerSizeML: line.Line.Size,
				Quantity:        line.Line.Quantity,
				TotalVolumeML:   line.Line.Size.VolumeML() * float64(line.Line.Quantity),
				UnitPrice:       line.UnitPrice,
				ComandaID:       input.ComandaID,
				ActorID:         input.ActorID,
				EventID:         input.EventID,
			}
			if err := salesRepo.Create(ctx, sale); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "inserting sale line")
			}
			saleID := sale.ID
			saleIDs = append(saleIDs, saleID)
			requests = append(requests, stock.DecrementRequest{
				BeverageID: line.Line.BeverageID,
				EventID:    input.EventID,
				Liters:     line.LitersNeeded,
				SaleID:     &saleID,
			})
		}

		decrements, err := stock.DecrementForSale(ctx, tx, requests)
		if err != nil {
			return err
		}

		var alerts []LowStockAlert
		seenAlert := map[uint]bool{}
		for i, dec := range decrements {
			if !dec.Applied {
				// Advisory only: the sale is the source of truth for revenue,
				// so a missing stock record never aborts the commit.
				if e.logg != nil {
					logCtx := e.logg.WithEventID(e.logg.WithBeverageID(ctx, dec.BeverageID), dec.EventID)
					e.logg.Warn(logCtx, "stock control disabled for scope, sale recorded unguarded")
				}
				continue
			}
			if dec.Level.BelowThreshold() && !seenAlert[dec.BeverageID] {
				seenAlert[dec.BeverageID] = true
				alerts = append(alerts, LowStockAlert{
					BeverageID:      dec.BeverageID,
					BeverageName:    validation.Lines[i].BeverageName,
					EventID:         dec.EventID,
					QuantityLiters:  dec.Level.QuantityLiters(),
					ThresholdLiters: dec.Level.ThresholdLiters(),
				})
			}
		}

		if input.ComandaID != nil {
			if _, err := tabs.EnsureOpen(ctx, tx, *input.ComandaID); err != nil {
				return err
			}
		}

		result = &CommitResult{
			SaleIDs:       saleIDs,
			TotalVolumeML: validation.TotalVolumeML,
			TotalPrice:    validation.TotalPrice,
			Alerts:        alerts,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
