package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValuationSource string

const (
	ValuationSourceManual ValuationSource = "manual"
	ValuationSourceAPI    ValuationSource = "api"
)

type Valuation struct {
	Base
	AccountID uint            `gorm:"not null;uniqueIndex:idx_valuations_account_source_date,priority:1" json:"accountId"`
	Account   *Account        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Source    ValuationSource `gorm:"type:varchar(16);not null;uniqueIndex:idx_valuations_account_source_date,priority:2" json:"source"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_valuations_account_source_date,priority:3" json:"date"`
	Value     decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"value"`
}

func (Valuation) TableName() string { return "valuations" }
