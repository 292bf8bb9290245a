package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

var ErrSelfMatch = fmt.Errorf("transaction cannot match itself")

// TransactionOverrides are the transaction columns the end user may write.
type TransactionOverrides struct {
	CategoryUser Patch[string]                 `json:"categoryUser"`
	TypeUser     Patch[models.TransactionType] `json:"typeUser"`
	Excluded     Patch[bool]                   `json:"excluded"`
	MatchID      Patch[uint]                   `json:"matchId"`
}

func findOwnedTransaction(tx *gorm.DB, userID, txnID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := tx.Where("id = ? AND account_id IN (?)", txnID, ownedAccountIDs(tx, userID)).First(&txn).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &txn, nil
}

// ListAccountTransactions returns an account's transactions, newest first.
func (s *Store) ListAccountTransactions(ctx context.Context, userID, accountID uint) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)
	if _, err := findOwnedAccount(db, userID, accountID); err != nil {
		return nil, fmt.Errorf("list account %d transactions: %w", accountID, err)
	}
	var txns []models.Transaction
	if err := db.Where("account_id = ?", accountID).Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list account %d transactions: %w", accountID, err)
	}
	return txns, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, txnID uint) (*models.Transaction, error) {
	txn, err := findOwnedTransaction(s.db.WithContext(ctx), userID, txnID)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", txnID, err)
	}
	return txn, nil
}

// UpdateTransactionOverrides applies the user's edits. A match must be
// another transaction visible to the same user.
func (s *Store) UpdateTransactionOverrides(ctx context.Context, userID, txnID uint, o TransactionOverrides) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if txn, err = findOwnedTransaction(tx, userID, txnID); err != nil {
			return err
		}

		if o.MatchID.Set && o.MatchID.Value != nil {
			matchID := *o.MatchID.Value
			if matchID == txn.ID {
				return ErrSelfMatch
			}
			if _, err := findOwnedTransaction(tx, userID, matchID); err != nil {
				return fmt.Errorf("match %d: %w", matchID, err)
			}
		}

		o.CategoryUser.applyPtr(&txn.CategoryUser)
		o.TypeUser.applyPtr(&txn.TypeUser)
		o.Excluded.applyValue(&txn.Excluded)
		o.MatchID.applyPtr(&txn.MatchID)

		if err := tx.Save(txn).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventUpdate, txn, txn.ID, &userID)
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", txnID, err)
	}
	return txn, nil
}

// ListTransactionMatches returns the transactions whose match points at
// txnID. The relation is stored one way only, so this is its reverse.
func (s *Store) ListTransactionMatches(ctx context.Context, userID, txnID uint) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)
	if _, err := findOwnedTransaction(db, userID, txnID); err != nil {
		return nil, fmt.Errorf("list matches of transaction %d: %w", txnID, err)
	}
	var txns []models.Transaction
	if err := db.Where("match_id = ?", txnID).Order("id").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list matches of transaction %d: %w", txnID, err)
	}
	return txns, nil
}
