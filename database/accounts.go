package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wealth-tracker/derive"
	"wealth-tracker/models"
)

// AccountOverrides are the account columns the end user may write.
type AccountOverrides struct {
	Name                     Patch[string]                 `json:"name"`
	IsActive                 Patch[bool]                   `json:"isActive"`
	CategoryUser             Patch[string]                 `json:"categoryUser"`
	SubcategoryUser          Patch[string]                 `json:"subcategoryUser"`
	CurrentBalanceUser       Patch[decimal.Decimal]        `json:"currentBalanceUser"`
	CurrentBalanceStrategy   Patch[derive.BalanceStrategy] `json:"currentBalanceStrategy"`
	AvailableBalanceUser     Patch[decimal.Decimal]        `json:"availableBalanceUser"`
	AvailableBalanceStrategy Patch[derive.BalanceStrategy] `json:"availableBalanceStrategy"`
	LoanUser                 Patch[datatypes.JSON]         `json:"loanUser"`
	CreditUser               Patch[datatypes.JSON]         `json:"creditUser"`
}

// Validate rejects strategy names no balance resolver knows.
func (o AccountOverrides) Validate() error {
	for _, p := range []Patch[derive.BalanceStrategy]{o.CurrentBalanceStrategy, o.AvailableBalanceStrategy} {
		if p.Value != nil && !derive.ValidBalanceStrategy(*p.Value) {
			return fmt.Errorf("%w: %q", derive.ErrUnknownBalanceStrategy, *p.Value)
		}
	}
	return nil
}

func (o AccountOverrides) apply(a *models.Account) {
	o.Name.applyValue(&a.Name)
	o.IsActive.applyValue(&a.IsActive)
	o.CategoryUser.applyPtr(&a.CategoryUser)
	o.SubcategoryUser.applyPtr(&a.SubcategoryUser)
	o.CurrentBalanceUser.applyPtr(&a.CurrentBalanceUser)
	o.CurrentBalanceStrategy.applyValue(&a.CurrentBalanceStrategy)
	o.AvailableBalanceUser.applyPtr(&a.AvailableBalanceUser)
	o.AvailableBalanceStrategy.applyValue(&a.AvailableBalanceStrategy)
	applyJSON(o.LoanUser, &a.LoanUser)
	applyJSON(o.CreditUser, &a.CreditUser)
}

// ownedConnectionIDs is a subquery of the connection ids owned by userID.
func ownedConnectionIDs(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.AccountConnection{}).
		Select("id").
		Where("user_id = ?", userID)
}

// ownedAccountIDs is a subquery of every account visible to userID, manual
// or aggregated.
func ownedAccountIDs(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Account{}).
		Select("id").
		Where("user_id = ? OR account_connection_id IN (?)", userID, ownedConnectionIDs(tx, userID))
}

func findOwnedAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var account models.Account
	err := tx.Where("id = ? AND id IN (?)", accountID, ownedAccountIDs(tx, userID)).First(&account).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// CreateManualAccount inserts an account owned directly by userID.
func (s *Store) CreateManualAccount(ctx context.Context, userID uint, account *models.Account) error {
	account.UserID = &userID
	account.AccountConnectionID = nil
	account.Provider = models.AccountProviderUser
	account.IsActive = true

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventInsert, account, account.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("create manual account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID uint) (*models.Account, error) {
	account, err := findOwnedAccount(s.db.WithContext(ctx), userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", accountID, err)
	}
	return account, nil
}

// ListUserAccounts returns manual and aggregated accounts of a user.
func (s *Store) ListUserAccounts(ctx context.Context, userID uint) ([]models.Account, error) {
	db := s.db.WithContext(ctx)
	var accounts []models.Account
	err := db.Where("id IN (?)", ownedAccountIDs(db, userID)).Order("id").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccountOverrides applies the user's edits and recomputes the derived
// columns in the same transaction.
func (s *Store) UpdateAccountOverrides(ctx context.Context, userID, accountID uint, o AccountOverrides) (*models.Account, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("update account %d: %w", accountID, err)
	}
	var account *models.Account
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if account, err = findOwnedAccount(tx, userID, accountID); err != nil {
			return err
		}
		o.apply(account)
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventUpdate, account, account.ID, &userID)
	})
	if err != nil {
		return nil, fmt.Errorf("update account %d: %w", accountID, err)
	}
	return account, nil
}

// DeleteAccount removes the account and, by cascade, its balances,
// transactions, holdings, investment transactions and valuations.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		account, err := findOwnedAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if err := tx.Delete(account).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventDelete, account, account.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("delete account %d: %w", accountID, err)
	}
	return nil
}
