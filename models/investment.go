package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wealth-tracker/derive"
)

type InvestmentTransaction struct {
	Base
	AccountID  uint      `gorm:"not null;index:idx_investment_transactions_account_date,priority:1" json:"accountId"`
	Account    *Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SecurityID *uint     `gorm:"index" json:"securityId"`
	Security   *Security `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Date         time.Time        `gorm:"type:date;not null;index:idx_investment_transactions_account_date,priority:2" json:"date"`
	Name         string           `gorm:"not null" json:"name"`
	Amount       decimal.Decimal  `gorm:"type:numeric(19,4);not null" json:"amount"`
	Fees         *decimal.Decimal `gorm:"type:numeric(19,4)" json:"fees"`
	Quantity     decimal.Decimal  `gorm:"type:numeric(36,18);not null" json:"quantity"`
	Price        decimal.Decimal  `gorm:"type:numeric(23,8);not null" json:"price"`
	CurrencyCode string           `gorm:"size:3;not null;default:USD" json:"currencyCode"`

	Flow     derive.Flow                          `gorm:"type:varchar(8);not null" json:"flow"`
	Category derive.InvestmentTransactionCategory `gorm:"type:varchar(16);not null" json:"category"`

	PlaidInvestmentTransactionID *string `gorm:"uniqueIndex" json:"-"`
	PlaidType                    *string `json:"plaidType"`
	PlaidSubtype                 *string `json:"plaidSubtype"`

	FinicityTransactionID             *string `gorm:"uniqueIndex" json:"-"`
	FinicityInvestmentTransactionType *string `json:"finicityInvestmentTransactionType"`
}

func (InvestmentTransaction) TableName() string { return "investment_transactions" }

func (t *InvestmentTransaction) BeforeSave(tx *gorm.DB) error {
	if t.CurrencyCode == "" {
		t.CurrencyCode = DefaultCurrency
	}
	t.Flow = derive.FlowFor(t.Amount)
	t.Category = derive.InvestmentCategory(t.PlaidType, t.PlaidSubtype)
	return nil
}
