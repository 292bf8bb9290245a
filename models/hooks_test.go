package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"wealth-tracker/derive"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestAccountBeforeSave(t *testing.T) {
	owner := uint(1)

	a := &Account{UserID: &owner, Type: derive.AccountTypeCredit, Name: "Card"}
	require.NoError(t, a.BeforeSave(nil))
	assert.Equal(t, derive.ClassificationLiability, a.Classification)
	assert.Equal(t, AccountProviderUser, a.Provider)
	assert.Equal(t, SyncStatusIdle, a.SyncStatus)
	assert.Equal(t, DefaultCurrency, a.CurrencyCode)
	assert.Equal(t, derive.BalanceStrategyCurrent, a.CurrentBalanceStrategy)
	assert.Equal(t, derive.BalanceStrategyAvailable, a.AvailableBalanceStrategy)

	assert.ErrorIs(t, (&Account{Type: derive.AccountTypeCredit}).BeforeSave(nil), ErrAccountOwner)
	assert.ErrorIs(t, (&Account{UserID: &owner, AccountConnectionID: &owner, Type: derive.AccountTypeCredit}).BeforeSave(nil), ErrAccountOwner)
	assert.ErrorIs(t, (&Account{UserID: &owner, Type: "CRYPTO"}).BeforeSave(nil), derive.ErrUnknownAccountType)
}

func TestAccountDerive(t *testing.T) {
	a := &Account{
		Type:                     derive.AccountTypeDepository,
		CategoryProvider:         ptr("checking"),
		SubcategoryUser:          ptr("joint"),
		CurrentBalanceUser:       dec("10"),
		CurrentBalanceProvider:   dec("100"),
		AvailableBalanceProvider: dec("40"),
		AvailableBalanceStrategy: derive.BalanceStrategyDifference,
		CurrentBalanceStrategy:   derive.BalanceStrategySum,
		LoanProvider:             datatypes.JSON(`{"apr":0.2}`),
		LoanUser:                 datatypes.JSON(`null`),
	}
	require.NoError(t, a.Derive())
	assert.Equal(t, "checking", a.Category)
	assert.Equal(t, "joint", a.Subcategory)
	assert.True(t, a.CurrentBalance.Equal(*dec("10")), "user value beats the strategy")
	assert.True(t, a.AvailableBalance.Equal(*dec("60")))
	assert.JSONEq(t, `{"apr":0.2}`, string(a.Loan))
	assert.Nil(t, a.Credit)

	*a.CurrentBalanceUser = decimal.NewFromInt(11)
	assert.True(t, a.CurrentBalance.Equal(*dec("10")), "derived value does not alias the override")
}

func TestTransactionDerive(t *testing.T) {
	payment := TransactionTypePayment
	expense := TransactionTypeExpense
	txn := &Transaction{
		Amount:                       *dec("0"),
		TypeProvider:                 &expense,
		FinicityCategorization:       datatypes.JSON(`{"category":"Utilities"}`),
		PlaidPersonalFinanceCategory: datatypes.JSON(`null`),
	}
	require.NoError(t, txn.BeforeSave(nil))
	assert.Equal(t, derive.FlowOutflow, txn.Flow)
	assert.Equal(t, derive.CategoryUtilities, txn.Category)
	require.NotNil(t, txn.Type)
	assert.Equal(t, expense, *txn.Type)
	assert.Equal(t, DefaultCurrency, txn.CurrencyCode)

	txn.TypeUser = &payment
	txn.TypeProvider = nil
	txn.Derive()
	assert.Equal(t, payment, *txn.Type)

	txn.TypeUser = nil
	txn.Derive()
	assert.Nil(t, txn.Type)
}

func TestInvestmentTransactionBeforeSave(t *testing.T) {
	it := &InvestmentTransaction{Amount: *dec("-5"), PlaidType: ptr("fee"), PlaidSubtype: ptr("tax withheld")}
	require.NoError(t, it.BeforeSave(nil))
	assert.Equal(t, derive.FlowInflow, it.Flow)
	assert.Equal(t, derive.InvestmentCategoryTax, it.Category)
}

func TestHoldingCostBasis(t *testing.T) {
	h := &Holding{CostBasisProvider: dec("12.5")}
	require.NoError(t, h.BeforeSave(nil))
	assert.True(t, h.CostBasis.Equal(*dec("12.5")))

	h.CostBasisUser = dec("11")
	require.NoError(t, h.BeforeSave(nil))
	assert.True(t, h.CostBasis.Equal(*dec("11")))

	h.CostBasisUser, h.CostBasisProvider = nil, nil
	require.NoError(t, h.BeforeSave(nil))
	assert.Nil(t, h.CostBasis)
}

func TestConnectionProviderFields(t *testing.T) {
	plaid := &AccountConnection{Type: AccountConnectionTypePlaid, PlaidItemID: ptr("item"), FinicityError: datatypes.JSON("null")}
	require.NoError(t, plaid.BeforeSave(nil))
	assert.Equal(t, AccountConnectionStatusOK, plaid.Status)

	plaid.FinicityInstitutionID = ptr("fi")
	assert.ErrorIs(t, plaid.BeforeSave(nil), ErrProviderFields)

	finicity := &AccountConnection{Type: AccountConnectionTypeFinicity, PlaidNewAccountsAvailable: true}
	assert.ErrorIs(t, finicity.BeforeSave(nil), ErrProviderFields)

	assert.Error(t, (&AccountConnection{Type: "mx"}).BeforeSave(nil))
}

func TestUserBeforeSave(t *testing.T) {
	u := &User{Email: "  Alan@Example.COM", FirstName: ptr("Alan")}
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, "alan@example.com", u.Email)
	assert.Equal(t, "Alan", *u.Name)

	u.FirstName = nil
	require.NoError(t, u.BeforeSave(nil))
	assert.Nil(t, u.Name)
}

func TestAuthIDs(t *testing.T) {
	u := &AuthUser{Email: "X@Y.Z"}
	require.NoError(t, u.BeforeCreate(nil))
	require.NoError(t, u.BeforeSave(nil))
	assert.Len(t, u.ID, 36)
	assert.Equal(t, "x@y.z", u.Email)

	preset := &AuthSession{ID: "fixed"}
	require.NoError(t, preset.BeforeCreate(nil))
	assert.Equal(t, "fixed", preset.ID)
}

func TestAuditEventReadOnly(t *testing.T) {
	e := &AuditEvent{}
	assert.ErrorIs(t, e.BeforeUpdate(nil), ErrAuditEventReadOnly)
	assert.ErrorIs(t, e.BeforeDelete(nil), ErrAuditEventReadOnly)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := Day(time.Date(2024, 3, 1, 2, 30, 0, 0, loc))
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), got.String())
}
