package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth-tracker/derive"
)

// Holding is a position snapshot, one per (account, security).
type Holding struct {
	Base
	AccountID  uint      `gorm:"not null;uniqueIndex:idx_holdings_account_security,priority:1" json:"accountId"`
	Account    *Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SecurityID uint      `gorm:"not null;uniqueIndex:idx_holdings_account_security,priority:2" json:"securityId"`
	Security   *Security `gorm:"constraint:OnDelete:CASCADE" json:"security,omitempty"`

	Quantity     decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"quantity"`
	Value        decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"value"`
	CurrencyCode string          `gorm:"size:3;not null;default:USD" json:"currencyCode"`
	Excluded     bool            `gorm:"not null;default:false" json:"excluded"`

	CostBasis         *decimal.Decimal `gorm:"type:numeric(23,8)" json:"costBasis"`
	CostBasisUser     *decimal.Decimal `gorm:"type:numeric(23,8)" json:"costBasisUser"`
	CostBasisProvider *decimal.Decimal `gorm:"type:numeric(23,8)" json:"costBasisProvider"`

	PlaidHoldingID *string `json:"-"`
}

func (Holding) TableName() string { return "holdings" }

func (h *Holding) BeforeSave(tx *gorm.DB) error {
	if h.CurrencyCode == "" {
		h.CurrencyCode = DefaultCurrency
	}
	h.CostBasis = cloneDecimal(derive.Coalesce(h.CostBasisUser, h.CostBasisProvider))
	return nil
}
