package tabs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openbarra/chopp-pos/pkg/db/models"
	"github.com/openbarra/chopp-pos/pkg/enums"
	pkgerrors "github.com/openbarra/chopp-pos/pkg/errors"
)

// EnsureOpen transitions the comanda to in_use inside the caller's
// transaction when it is still available, and tolerates one that is already
// open so the sale engine can append to it. A comanda awaiting payment cannot
// take new sales.
func EnsureOpen(ctx context.Context, tx *gorm.DB, comandaID uint) (*models.Comanda, error) {
	var comanda models.Comanda
	if err := tx.WithContext(ctx).First(&comanda, comandaID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comanda not found").WithDetails(comandaID)
		}
		return nil, err
	}

	switch comanda.Status {
	case enums.ComandaStatusInUse:
		return &comanda, nil
	case enums.ComandaStatusAvailable:
		now := time.Now().UTC()
		comanda.Status = enums.ComandaStatusInUse
		comanda.OpenedAt = &now
		if err := tx.WithContext(ctx).Save(&comanda).Error; err != nil {
			return nil, err
		}
		return &comanda, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "comanda awaiting payment cannot take sales").
			WithDetails(comanda.Number)
	}
}
