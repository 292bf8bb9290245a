package models

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth-tracker/logger"
)

// Base replaces gorm.Model: rows are hard-deleted so the foreign key
// ON DELETE rules fire.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrAccountOwner       = fmt.Errorf("account must belong to exactly one of a user or a connection")
	ErrProviderFields     = fmt.Errorf("connection carries fields of the inactive provider")
	ErrAuditEventReadOnly = fmt.Errorf("audit events are append-only")
)

const DefaultCurrency = "USD"

func hookLogger(tx *gorm.DB) zerolog.Logger {
	if tx == nil || tx.Statement == nil || tx.Statement.Context == nil {
		return logger.FromContext(context.Background())
	}
	return logger.FromContext(tx.Statement.Context)
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Day truncates t to midnight UTC, the key used by the daily snapshot tables.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
