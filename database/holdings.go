package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth-tracker/models"
)

type HoldingOverrides struct {
	CostBasisUser Patch[decimal.Decimal] `json:"costBasisUser"`
	Excluded      Patch[bool]            `json:"excluded"`
}

// ListAccountHoldings returns an account's positions with their securities.
func (s *Store) ListAccountHoldings(ctx context.Context, userID, accountID uint) ([]models.Holding, error) {
	db := s.db.WithContext(ctx)
	if _, err := findOwnedAccount(db, userID, accountID); err != nil {
		return nil, fmt.Errorf("list account %d holdings: %w", accountID, err)
	}
	var holdings []models.Holding
	err := db.Preload("Security").Where("account_id = ?", accountID).Order("id").Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("list account %d holdings: %w", accountID, err)
	}
	return holdings, nil
}

func (s *Store) UpdateHoldingOverrides(ctx context.Context, userID, holdingID uint, o HoldingOverrides) (*models.Holding, error) {
	var holding models.Holding
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND account_id IN (?)", holdingID, ownedAccountIDs(tx, userID)).First(&holding).Error
		if err != nil {
			return err
		}
		o.CostBasisUser.applyPtr(&holding.CostBasisUser)
		o.Excluded.applyValue(&holding.Excluded)
		if err := tx.Save(&holding).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventUpdate, &holding, holding.ID, &userID)
	})
	if err != nil {
		return nil, fmt.Errorf("update holding %d: %w", holdingID, err)
	}
	return &holding, nil
}

// SetHoldingCostBasis sets the user's cost basis; nil clears it and the
// provider's value shows through again.
func (s *Store) SetHoldingCostBasis(ctx context.Context, userID, holdingID uint, costBasis *decimal.Decimal) (*models.Holding, error) {
	return s.UpdateHoldingOverrides(ctx, userID, holdingID, HoldingOverrides{
		CostBasisUser: Patch[decimal.Decimal]{Set: true, Value: costBasis},
	})
}
