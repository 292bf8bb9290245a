package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security is shared across users and deduplicated by provider identifier.
type Security struct {
	Base
	Name                *string    `json:"name"`
	Symbol              *string    `gorm:"index" json:"symbol"`
	CUSIP               *string    `gorm:"column:cusip" json:"cusip"`
	ISIN                *string    `gorm:"column:isin" json:"isin"`
	CurrencyCode        string     `gorm:"size:3;not null;default:USD" json:"currencyCode"`
	PricingLastSyncedAt *time.Time `json:"pricingLastSyncedAt"`
	IsBrokerageCash     bool       `gorm:"not null;default:false" json:"isBrokerageCash"`

	PlaidSecurityID       *string `gorm:"uniqueIndex" json:"-"`
	PlaidType             *string `json:"plaidType"`
	PlaidIsCashEquivalent *bool   `json:"plaidIsCashEquivalent"`

	FinicitySecurityID     *string `gorm:"uniqueIndex:idx_securities_finicity,priority:1" json:"-"`
	FinicitySecurityIDType *string `gorm:"uniqueIndex:idx_securities_finicity,priority:2" json:"-"`
	FinicityType           *string `json:"finicityType"`
}

func (Security) TableName() string { return "securities" }

// SecurityPricing is the daily close keyed by (security, date).
type SecurityPricing struct {
	SecurityID uint            `gorm:"primaryKey;autoIncrement:false" json:"securityId"`
	Security   *Security       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date       time.Time       `gorm:"primaryKey;type:date" json:"date"`
	Close      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"close"`
	Source     *string         `json:"source"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (SecurityPricing) TableName() string { return "security_pricing" }
