package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

var ErrMissingProviderID = fmt.Errorf("row carries no provider identifier")

// The Sync* writes are made by the aggregator sync. They copy provider
// columns only: every <field>User column already stored survives the
// resync, and the model hooks recompute the derived values in the same
// transaction. Audit events carry no actor.

// SyncConnectionAccounts upserts the accounts reported for a connection,
// keyed by the provider's account id within that connection.
func (s *Store) SyncConnectionAccounts(ctx context.Context, connID uint, accounts []models.Account) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var conn models.AccountConnection
		if err := tx.First(&conn, connID).Error; err != nil {
			return err
		}

		for i := range accounts {
			in := &accounts[i]
			existing, err := findProviderAccount(tx, &conn, in)
			if err != nil {
				return err
			}

			if existing == nil {
				in.ID = 0
				in.AccountConnectionID = &conn.ID
				in.UserID = nil
				in.Provider = models.AccountProvider(conn.Type)
				in.IsActive = true
				in.CategoryUser, in.SubcategoryUser = nil, nil
				in.CurrentBalanceUser, in.AvailableBalanceUser = nil, nil
				in.LoanUser, in.CreditUser = nil, nil
				if err := tx.Create(in).Error; err != nil {
					return err
				}
				if err := recordAudit(tx, models.AuditEventInsert, in, in.ID, nil); err != nil {
					return err
				}
				continue
			}

			copyAccountProviderFields(existing, in)
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			if err := recordAudit(tx, models.AuditEventUpdate, existing, existing.ID, nil); err != nil {
				return err
			}
			accounts[i] = *existing
		}

		now := time.Now().UTC()
		conn.LastSyncedAt = &now
		return tx.Save(&conn).Error
	})
	if err != nil {
		return fmt.Errorf("sync connection %d accounts: %w", connID, err)
	}
	return nil
}

func findProviderAccount(tx *gorm.DB, conn *models.AccountConnection, in *models.Account) (*models.Account, error) {
	q := tx.Where("account_connection_id = ?", conn.ID)
	switch conn.Type {
	case models.AccountConnectionTypePlaid:
		if in.PlaidAccountID == nil {
			return nil, ErrMissingProviderID
		}
		q = q.Where("plaid_account_id = ?", *in.PlaidAccountID)
	case models.AccountConnectionTypeFinicity:
		if in.FinicityAccountID == nil {
			return nil, ErrMissingProviderID
		}
		q = q.Where("finicity_account_id = ?", *in.FinicityAccountID)
	default:
		return nil, fmt.Errorf("unknown connection type %q", conn.Type)
	}
	return firstOrNil[models.Account](q)
}

func copyAccountProviderFields(dst, src *models.Account) {
	dst.Type = src.Type
	dst.Mask = src.Mask
	if src.CurrencyCode != "" {
		dst.CurrencyCode = src.CurrencyCode
	}
	dst.CategoryProvider = src.CategoryProvider
	dst.SubcategoryProvider = src.SubcategoryProvider
	dst.CurrentBalanceProvider = src.CurrentBalanceProvider
	dst.AvailableBalanceProvider = src.AvailableBalanceProvider
	dst.LoanProvider = src.LoanProvider
	dst.CreditProvider = src.CreditProvider
	dst.PlaidType = src.PlaidType
	dst.PlaidSubtype = src.PlaidSubtype
	dst.PlaidLiability = src.PlaidLiability
	dst.FinicityType = src.FinicityType
	dst.FinicityDetail = src.FinicityDetail
}

// SyncTransactions upserts the provider transactions of one account, keyed
// by the provider transaction id.
func (s *Store) SyncTransactions(ctx context.Context, accountID uint, txns []models.Transaction) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		for i := range txns {
			in := &txns[i]
			var q *gorm.DB
			switch {
			case in.PlaidTransactionID != nil:
				q = tx.Where("plaid_transaction_id = ?", *in.PlaidTransactionID)
			case in.FinicityTransactionID != nil:
				q = tx.Where("finicity_transaction_id = ?", *in.FinicityTransactionID)
			default:
				return ErrMissingProviderID
			}
			existing, err := firstOrNil[models.Transaction](q.Where("account_id = ?", accountID))
			if err != nil {
				return err
			}

			if existing == nil {
				in.ID = 0
				in.AccountID = accountID
				in.CategoryUser, in.TypeUser, in.MatchID = nil, nil, nil
				if err := tx.Create(in).Error; err != nil {
					return err
				}
				if err := recordAudit(tx, models.AuditEventInsert, in, in.ID, nil); err != nil {
					return err
				}
				continue
			}

			copyTransactionProviderFields(existing, in)
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			if err := recordAudit(tx, models.AuditEventUpdate, existing, existing.ID, nil); err != nil {
				return err
			}
			txns[i] = *existing
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync account %d transactions: %w", accountID, err)
	}
	return nil
}

func copyTransactionProviderFields(dst, src *models.Transaction) {
	dst.Date = src.Date
	dst.Name = src.Name
	dst.Amount = src.Amount
	if src.CurrencyCode != "" {
		dst.CurrencyCode = src.CurrencyCode
	}
	dst.Pending = src.Pending
	dst.MerchantName = src.MerchantName
	dst.TypeProvider = src.TypeProvider
	dst.PlaidCategory = src.PlaidCategory
	dst.PlaidCategoryID = src.PlaidCategoryID
	dst.PlaidPersonalFinanceCategory = src.PlaidPersonalFinanceCategory
	dst.FinicityType = src.FinicityType
	dst.FinicityCategorization = src.FinicityCategorization
}

// SyncInvestmentTransactions upserts investment activity of one account.
// Every column is provider-owned, so an existing row is overwritten.
func (s *Store) SyncInvestmentTransactions(ctx context.Context, accountID uint, txns []models.InvestmentTransaction) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		for i := range txns {
			in := &txns[i]
			var q *gorm.DB
			switch {
			case in.PlaidInvestmentTransactionID != nil:
				q = tx.Where("plaid_investment_transaction_id = ?", *in.PlaidInvestmentTransactionID)
			case in.FinicityTransactionID != nil:
				q = tx.Where("finicity_transaction_id = ?", *in.FinicityTransactionID)
			default:
				return ErrMissingProviderID
			}
			existing, err := firstOrNil[models.InvestmentTransaction](q.Where("account_id = ?", accountID))
			if err != nil {
				return err
			}

			in.AccountID = accountID
			typ := models.AuditEventInsert
			if existing != nil {
				in.ID = existing.ID
				in.CreatedAt = existing.CreatedAt
				typ = models.AuditEventUpdate
			} else {
				in.ID = 0
			}
			if err := tx.Save(in).Error; err != nil {
				return err
			}
			if err := recordAudit(tx, typ, in, in.ID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync account %d investment transactions: %w", accountID, err)
	}
	return nil
}

// SyncHoldings upserts positions keyed by (account, security). The user's
// cost basis and exclusion flag are kept.
func (s *Store) SyncHoldings(ctx context.Context, accountID uint, holdings []models.Holding) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		for i := range holdings {
			in := &holdings[i]
			existing, err := firstOrNil[models.Holding](
				tx.Where("account_id = ? AND security_id = ?", accountID, in.SecurityID),
			)
			if err != nil {
				return err
			}

			if existing == nil {
				in.ID = 0
				in.AccountID = accountID
				in.CostBasisUser = nil
				in.Security = nil
				if err := tx.Create(in).Error; err != nil {
					return err
				}
				if err := recordAudit(tx, models.AuditEventInsert, in, in.ID, nil); err != nil {
					return err
				}
				continue
			}

			existing.Quantity = in.Quantity
			existing.Value = in.Value
			if in.CurrencyCode != "" {
				existing.CurrencyCode = in.CurrencyCode
			}
			existing.CostBasisProvider = in.CostBasisProvider
			existing.PlaidHoldingID = in.PlaidHoldingID
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			if err := recordAudit(tx, models.AuditEventUpdate, existing, existing.ID, nil); err != nil {
				return err
			}
			holdings[i] = *existing
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync account %d holdings: %w", accountID, err)
	}
	return nil
}

// UpsertSecurity resolves a security by its provider identifier, creating it
// when unseen and refreshing its descriptive columns otherwise.
func (s *Store) UpsertSecurity(ctx context.Context, sec *models.Security) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var q *gorm.DB
		switch {
		case sec.PlaidSecurityID != nil:
			q = tx.Where("plaid_security_id = ?", *sec.PlaidSecurityID)
		case sec.FinicitySecurityID != nil && sec.FinicitySecurityIDType != nil:
			q = tx.Where("finicity_security_id = ? AND finicity_security_id_type = ?", *sec.FinicitySecurityID, *sec.FinicitySecurityIDType)
		default:
			return ErrMissingProviderID
		}
		existing, err := firstOrNil[models.Security](q)
		if err != nil {
			return err
		}
		if existing != nil {
			sec.ID = existing.ID
			sec.CreatedAt = existing.CreatedAt
			sec.PricingLastSyncedAt = existing.PricingLastSyncedAt
		}
		return tx.Save(sec).Error
	})
	if err != nil {
		return fmt.Errorf("upsert security: %w", err)
	}
	return nil
}

func firstOrNil[T any](q *gorm.DB) (*T, error) {
	var rows []T
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
