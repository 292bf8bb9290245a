package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wealth-tracker/derive"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypePayment  TransactionType = "PAYMENT"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction is a cash movement on an account. MatchID points at the
// canonical counterpart of a transfer pair; the relation is not required to
// be symmetric.
type Transaction struct {
	Base
	AccountID uint     `gorm:"not null;index:idx_transactions_account_date,priority:1" json:"accountId"`
	Account   *Account `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Date         time.Time       `gorm:"type:date;not null;index:idx_transactions_account_date,priority:2" json:"date"`
	Name         string          `gorm:"not null" json:"name"`
	Amount       decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	CurrencyCode string          `gorm:"size:3;not null;default:USD" json:"currencyCode"`
	Pending      bool            `gorm:"not null;default:false" json:"pending"`
	MerchantName *string         `json:"merchantName"`
	Excluded     bool            `gorm:"not null;default:false" json:"excluded"`

	Flow         derive.Flow `gorm:"type:varchar(8);not null" json:"flow"`
	Category     string      `gorm:"not null" json:"category"`
	CategoryUser *string     `json:"categoryUser"`

	Type         *TransactionType `gorm:"type:varchar(16)" json:"type"`
	TypeUser     *TransactionType `gorm:"type:varchar(16)" json:"typeUser"`
	TypeProvider *TransactionType `gorm:"type:varchar(16)" json:"typeProvider"`

	MatchID *uint        `gorm:"index" json:"matchId"`
	Match   *Transaction `gorm:"foreignKey:MatchID;constraint:OnDelete:SET NULL" json:"-"`

	PlaidTransactionID           *string        `gorm:"uniqueIndex" json:"-"`
	PlaidCategory                datatypes.JSON `json:"plaidCategory"`
	PlaidCategoryID              *string        `json:"plaidCategoryId"`
	PlaidPersonalFinanceCategory datatypes.JSON `json:"plaidPersonalFinanceCategory"`

	FinicityTransactionID  *string        `gorm:"uniqueIndex" json:"-"`
	FinicityType           *string        `json:"finicityType"`
	FinicityCategorization datatypes.JSON `json:"finicityCategorization"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	if t.CurrencyCode == "" {
		t.CurrencyCode = DefaultCurrency
	}
	t.Derive()
	return nil
}

func (t *Transaction) Derive() {
	t.Flow = derive.FlowFor(t.Amount)
	t.Category = derive.TransactionCategory(derive.TransactionCategoryInput{
		CategoryUser:                 t.CategoryUser,
		PlaidPersonalFinanceCategory: t.PlaidPersonalFinanceCategory,
		FinicityCategorization:       t.FinicityCategorization,
	})
	if typ := derive.Coalesce(t.TypeUser, t.TypeProvider); typ != nil {
		v := *typ
		t.Type = &v
	} else {
		t.Type = nil
	}
}
