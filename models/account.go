package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wealth-tracker/derive"
)

type AccountProvider string

const (
	AccountProviderUser     AccountProvider = "user"
	AccountProviderPlaid    AccountProvider = "plaid"
	AccountProviderFinicity AccountProvider = "finicity"
)

// Account is either manual (UserID set) or aggregated (AccountConnectionID
// set). Every <field>User / <field>Provider pair has a derived <field>
// recomputed on save.
type Account struct {
	Base
	AccountConnectionID *uint              `gorm:"index;uniqueIndex:idx_accounts_plaid_account,priority:1;uniqueIndex:idx_accounts_finicity_account,priority:1" json:"accountConnectionId"`
	AccountConnection   *AccountConnection `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID              *uint              `gorm:"index" json:"userId"`
	User                *User              `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Type           derive.AccountType    `gorm:"type:varchar(32);not null" json:"type"`
	Provider       AccountProvider       `gorm:"type:varchar(16);not null;default:user" json:"provider"`
	Classification derive.Classification `gorm:"type:varchar(16);not null" json:"classification"`
	Name           string                `gorm:"not null" json:"name"`
	Mask           *string               `json:"mask"`
	IsActive       bool                  `gorm:"not null;default:true" json:"isActive"`
	SyncStatus     SyncStatus            `gorm:"type:varchar(16);not null;default:IDLE" json:"syncStatus"`
	CurrencyCode   string                `gorm:"size:3;not null;default:USD" json:"currencyCode"`
	StartDate      *time.Time            `gorm:"type:date" json:"startDate"`

	Category         string  `gorm:"not null" json:"category"`
	CategoryUser     *string `json:"categoryUser"`
	CategoryProvider *string `json:"categoryProvider"`

	Subcategory         string  `gorm:"not null" json:"subcategory"`
	SubcategoryUser     *string `json:"subcategoryUser"`
	SubcategoryProvider *string `json:"subcategoryProvider"`

	CurrentBalance         *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"currentBalance"`
	CurrentBalanceUser     *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"currentBalanceUser"`
	CurrentBalanceProvider *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"currentBalanceProvider"`
	CurrentBalanceStrategy derive.BalanceStrategy `gorm:"type:varchar(16);not null;default:current" json:"currentBalanceStrategy"`

	AvailableBalance         *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"availableBalance"`
	AvailableBalanceUser     *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"availableBalanceUser"`
	AvailableBalanceProvider *decimal.Decimal       `gorm:"type:numeric(19,4)" json:"availableBalanceProvider"`
	AvailableBalanceStrategy derive.BalanceStrategy `gorm:"type:varchar(16);not null;default:available" json:"availableBalanceStrategy"`

	Loan         datatypes.JSON `json:"loan"`
	LoanUser     datatypes.JSON `json:"loanUser"`
	LoanProvider datatypes.JSON `json:"loanProvider"`

	Credit         datatypes.JSON `json:"credit"`
	CreditUser     datatypes.JSON `json:"creditUser"`
	CreditProvider datatypes.JSON `json:"creditProvider"`

	PlaidAccountID *string        `gorm:"uniqueIndex:idx_accounts_plaid_account,priority:2" json:"-"`
	PlaidType      *string        `json:"plaidType"`
	PlaidSubtype   *string        `json:"plaidSubtype"`
	PlaidLiability datatypes.JSON `json:"-"`

	FinicityAccountID *string        `gorm:"uniqueIndex:idx_accounts_finicity_account,priority:2" json:"-"`
	FinicityType      *string        `json:"finicityType"`
	FinicityDetail    datatypes.JSON `json:"-"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) BeforeSave(tx *gorm.DB) error {
	if (a.UserID == nil) == (a.AccountConnectionID == nil) {
		return ErrAccountOwner
	}
	if a.Provider == "" {
		a.Provider = AccountProviderUser
	}
	if a.SyncStatus == "" {
		a.SyncStatus = SyncStatusIdle
	}
	if a.CurrencyCode == "" {
		a.CurrencyCode = DefaultCurrency
	}
	if a.CurrentBalanceStrategy == "" {
		a.CurrentBalanceStrategy = derive.BalanceStrategyCurrent
	}
	if a.AvailableBalanceStrategy == "" {
		a.AvailableBalanceStrategy = derive.BalanceStrategyAvailable
	}

	if err := a.Derive(); err != nil {
		log := hookLogger(tx)
		log.Error().Err(err).
			Uint("account_id", a.ID).
			Str("type", string(a.Type)).
			Msg("account derivation fault, rejecting write")
		return err
	}
	return nil
}

// Derive recomputes every derived column from its inputs.
func (a *Account) Derive() error {
	classification, err := derive.Classify(a.Type)
	if err != nil {
		return err
	}
	a.Classification = classification

	a.Category = derive.CoalesceString(derive.AccountCategoryOther, a.CategoryUser, a.CategoryProvider)
	a.Subcategory = derive.CoalesceString(derive.AccountCategoryOther, a.SubcategoryUser, a.SubcategoryProvider)

	sources := derive.BalanceSources{
		Current:   a.CurrentBalanceProvider,
		Available: a.AvailableBalanceProvider,
	}
	if a.CurrentBalance, err = derive.ResolveBalance(a.CurrentBalanceUser, a.CurrentBalanceStrategy, sources); err != nil {
		return err
	}
	if a.AvailableBalance, err = derive.ResolveBalance(a.AvailableBalanceUser, a.AvailableBalanceStrategy, sources); err != nil {
		return err
	}

	a.Loan = derive.CoalesceJSON(a.LoanUser, a.LoanProvider)
	a.Credit = derive.CoalesceJSON(a.CreditUser, a.CreditProvider)
	return nil
}
