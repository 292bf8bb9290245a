package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the daily balance snapshot keyed by (account, date). A
// resync of an existing date overwrites the row.
type AccountBalance struct {
	AccountID uint            `gorm:"primaryKey;autoIncrement:false" json:"accountId"`
	Account   *Account        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date      time.Time       `gorm:"primaryKey;type:date" json:"date"`
	Balance   decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (AccountBalance) TableName() string { return "account_balances" }
