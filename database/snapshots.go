package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth-tracker/models"
)

// UpsertAccountBalances writes daily balance snapshots. A row for an existing
// (account, date) overwrites the stored balance.
func (s *Store) UpsertAccountBalances(ctx context.Context, balances []models.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}

	type key struct {
		accountID uint
		date      time.Time
	}
	latest := make(map[key]int, len(balances))
	rows := make([]models.AccountBalance, 0, len(balances))
	for _, b := range balances {
		b.Date = models.Day(b.Date)
		b.Account = nil
		k := key{b.AccountID, b.Date}
		if i, ok := latest[k]; ok {
			rows[i] = b
			continue
		}
		latest[k] = len(rows)
		rows = append(rows, b)
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("upsert account balances: %w", err)
	}
	return nil
}

func (s *Store) ListAccountBalances(ctx context.Context, userID, accountID uint, from, to time.Time) ([]models.AccountBalance, error) {
	db := s.db.WithContext(ctx)
	if _, err := findOwnedAccount(db, userID, accountID); err != nil {
		return nil, fmt.Errorf("list account %d balances: %w", accountID, err)
	}
	var balances []models.AccountBalance
	err := db.Where("account_id = ? AND date >= ? AND date <= ?", accountID, models.Day(from), models.Day(to)).
		Order("date").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("list account %d balances: %w", accountID, err)
	}
	return balances, nil
}

// UpsertSecurityPricing writes daily closes, overwriting an existing
// (security, date), and stamps each touched security as freshly priced.
// Cached closes of those securities are evicted after the commit.
func (s *Store) UpsertSecurityPricing(ctx context.Context, prices []models.SecurityPricing) error {
	if len(prices) == 0 {
		return nil
	}

	type key struct {
		securityID uint
		date       time.Time
	}
	latest := make(map[key]int, len(prices))
	rows := make([]models.SecurityPricing, 0, len(prices))
	var securityIDs []uint
	seen := make(map[uint]bool)
	for _, p := range prices {
		p.Date = models.Day(p.Date)
		p.Security = nil
		k := key{p.SecurityID, p.Date}
		if i, ok := latest[k]; ok {
			rows[i] = p
			continue
		}
		latest[k] = len(rows)
		rows = append(rows, p)
		if !seen[p.SecurityID] {
			seen[p.SecurityID] = true
			securityIDs = append(securityIDs, p.SecurityID)
		}
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "security_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"close", "source", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Security{}).
			Where("id IN ?", securityIDs).
			Update("pricing_last_synced_at", time.Now().UTC()).Error
	})
	if err != nil {
		return fmt.Errorf("upsert security pricing: %w", err)
	}
	if s.prices != nil {
		// the rows are committed; a retry of the upsert is idempotent
		if err := s.prices.Invalidate(ctx, securityIDs...); err != nil {
			return fmt.Errorf("upsert security pricing: %w", err)
		}
	}
	return nil
}

// LatestSecurityPrice returns the most recent stored close.
func (s *Store) LatestSecurityPrice(ctx context.Context, securityID uint) (*models.SecurityPricing, error) {
	var price models.SecurityPricing
	err := s.db.WithContext(ctx).
		Where("security_id = ?", securityID).
		Order("date DESC").
		Take(&price).Error
	if err := translateError(err); err != nil {
		return nil, fmt.Errorf("latest price of security %d: %w", securityID, err)
	}
	return &price, nil
}

// UpsertValuation records a point-in-time value of an account, overwriting an
// existing (account, source, date).
func (s *Store) UpsertValuation(ctx context.Context, v *models.Valuation) error {
	v.Date = models.Day(v.Date)
	v.Account = nil
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "source"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(v).Error
	})
	if err != nil {
		return fmt.Errorf("upsert valuation: %w", err)
	}
	return nil
}
