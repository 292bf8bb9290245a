package database

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"wealth-tracker/derive"
	"wealth-tracker/models"
)

type syncFixture struct {
	store   *Store
	user    *models.User
	conn    *models.AccountConnection
	account models.Account
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	s := newStore(t)
	user := createUser(t, s, "sync@example.com")
	conn := createPlaidConnection(t, s, user.ID, "item-1")
	accounts := []models.Account{{
		Type:                     derive.AccountTypeInvestment,
		Name:                     "Brokerage",
		PlaidAccountID:           ptr("p-1"),
		CurrentBalanceProvider:   dec("1000"),
		AvailableBalanceProvider: dec("200"),
	}}
	require.NoError(t, s.SyncConnectionAccounts(context.Background(), conn.ID, accounts))
	return &syncFixture{store: s, user: user, conn: conn, account: accounts[0]}
}

func TestSyncAccountsKeepsUserOverrides(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	_, err := f.store.UpdateAccountOverrides(ctx, f.user.ID, f.account.ID, AccountOverrides{
		Name:                   SetTo("My brokerage"),
		CategoryUser:           SetTo("retirement"),
		CurrentBalanceStrategy: SetTo(derive.BalanceStrategySum),
		CreditUser:             SetTo(datatypes.JSON(`{"limit":5000}`)),
	})
	require.NoError(t, err)

	resync := []models.Account{{
		Type:                     derive.AccountTypeInvestment,
		Name:                     "BROKERAGE ACCT",
		PlaidAccountID:           ptr("p-1"),
		CategoryProvider:         ptr("brokerage"),
		CurrentBalanceProvider:   dec("1200"),
		AvailableBalanceProvider: dec("300"),
		CreditProvider:           datatypes.JSON(`{"limit":1000}`),
	}}
	require.NoError(t, f.store.SyncConnectionAccounts(ctx, f.conn.ID, resync))
	assert.Equal(t, f.account.ID, resync[0].ID, "matched by provider id, not inserted")
	assert.EqualValues(t, 1, count(t, f.store, &models.Account{}))

	got, err := f.store.GetAccount(ctx, f.user.ID, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "My brokerage", got.Name)
	assert.Equal(t, "retirement", got.Category)
	require.NotNil(t, got.CategoryProvider)
	assert.Equal(t, "brokerage", *got.CategoryProvider)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1500)), got.CurrentBalance.String())
	assert.True(t, got.AvailableBalance.Equal(decimal.NewFromInt(300)), got.AvailableBalance.String())
	assert.JSONEq(t, `{"limit":5000}`, string(got.Credit))

	conn, err := f.store.GetConnection(ctx, f.user.ID, f.conn.ID)
	require.NoError(t, err)
	assert.NotNil(t, conn.LastSyncedAt)
}

func TestSyncAccountsRequiresProviderID(t *testing.T) {
	f := newSyncFixture(t)
	err := f.store.SyncConnectionAccounts(context.Background(), f.conn.ID, []models.Account{
		{Type: derive.AccountTypeDepository, Name: "No id", FinicityAccountID: ptr("f-1")},
	})
	assert.ErrorIs(t, err, ErrMissingProviderID)
}

func TestSyncTransactionsKeepsUserOverrides(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	income := models.TransactionTypeIncome

	txns := []models.Transaction{
		{
			Date:                         day(2024, 3, 1),
			Name:                         "Payroll",
			Amount:                       *dec("-2500"),
			PlaidTransactionID:           ptr("t-1"),
			PlaidPersonalFinanceCategory: datatypes.JSON(`{"primary":"INCOME","detailed":"INCOME_WAGES"}`),
			TypeProvider:                 &income,
		},
		{
			Date:                         day(2024, 3, 2),
			Name:                         "Cafe",
			Amount:                       *dec("4.50"),
			PlaidTransactionID:           ptr("t-2"),
			PlaidPersonalFinanceCategory: datatypes.JSON(`{"primary":"FOOD_AND_DRINK","detailed":"FOOD_AND_DRINK_COFFEE"}`),
		},
	}
	require.NoError(t, f.store.SyncTransactions(ctx, f.account.ID, txns))
	assert.Equal(t, derive.FlowInflow, txns[0].Flow)
	assert.Equal(t, derive.CategoryIncome, txns[0].Category)
	require.NotNil(t, txns[0].Type)
	assert.Equal(t, income, *txns[0].Type)
	assert.Equal(t, derive.FlowOutflow, txns[1].Flow)
	assert.Equal(t, derive.CategoryFoodAndDrink, txns[1].Category)
	assert.Nil(t, txns[1].Type)

	_, err := f.store.UpdateTransactionOverrides(ctx, f.user.ID, txns[1].ID, TransactionOverrides{
		CategoryUser: SetTo("Treats"),
		Excluded:     SetTo(true),
	})
	require.NoError(t, err)

	resync := []models.Transaction{{
		Date:                         day(2024, 3, 2),
		Name:                         "Cafe Downtown",
		Amount:                       *dec("5.25"),
		PlaidTransactionID:           ptr("t-2"),
		PlaidPersonalFinanceCategory: datatypes.JSON(`{"primary":"FOOD_AND_DRINK","detailed":"FOOD_AND_DRINK_COFFEE"}`),
	}}
	require.NoError(t, f.store.SyncTransactions(ctx, f.account.ID, resync))

	got, err := f.store.GetTransaction(ctx, f.user.ID, txns[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe Downtown", got.Name)
	assert.True(t, got.Amount.Equal(*dec("5.25")), got.Amount.String())
	assert.Equal(t, "Treats", got.Category)
	assert.True(t, got.Excluded)

	assert.ErrorIs(t, f.store.SyncTransactions(ctx, f.account.ID, []models.Transaction{{Name: "manual"}}), ErrMissingProviderID)
}

func TestSyncInvestmentTransactions(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	sec := &models.Security{Symbol: ptr("VTI"), PlaidSecurityID: ptr("sec-1")}
	require.NoError(t, f.store.UpsertSecurity(ctx, sec))

	txns := []models.InvestmentTransaction{{
		SecurityID:                   &sec.ID,
		Date:                         day(2024, 4, 1),
		Name:                         "Dividend VTI",
		Amount:                       *dec("-12.34"),
		Quantity:                     decimal.Zero,
		Price:                        decimal.Zero,
		PlaidInvestmentTransactionID: ptr("it-1"),
		PlaidType:                    ptr("cash"),
		PlaidSubtype:                 ptr("qualified dividend"),
	}}
	require.NoError(t, f.store.SyncInvestmentTransactions(ctx, f.account.ID, txns))
	assert.Equal(t, derive.InvestmentCategoryDividend, txns[0].Category)
	assert.Equal(t, derive.FlowInflow, txns[0].Flow)

	again := []models.InvestmentTransaction{{
		SecurityID:                   &sec.ID,
		Date:                         day(2024, 4, 1),
		Name:                         "Dividend VTI",
		Amount:                       *dec("-12.34"),
		PlaidInvestmentTransactionID: ptr("it-1"),
		PlaidType:                    ptr("cancel"),
	}}
	require.NoError(t, f.store.SyncInvestmentTransactions(ctx, f.account.ID, again))
	assert.Equal(t, txns[0].ID, again[0].ID)
	assert.EqualValues(t, 1, count(t, f.store, &models.InvestmentTransaction{}))

	var stored models.InvestmentTransaction
	require.NoError(t, f.store.DB().First(&stored, txns[0].ID).Error)
	assert.Equal(t, derive.InvestmentCategoryCancel, stored.Category)
}

func TestSyncHoldingsKeepsCostBasisOverride(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	sec := &models.Security{Symbol: ptr("AAPL"), PlaidSecurityID: ptr("sec-aapl")}
	require.NoError(t, f.store.UpsertSecurity(ctx, sec))

	holdings := []models.Holding{{
		SecurityID:        sec.ID,
		Quantity:          *dec("10"),
		Value:             *dec("1900"),
		CostBasisProvider: dec("150"),
	}}
	require.NoError(t, f.store.SyncHoldings(ctx, f.account.ID, holdings))
	require.NotNil(t, holdings[0].CostBasis)
	assert.True(t, holdings[0].CostBasis.Equal(*dec("150")))

	_, err := f.store.SetHoldingCostBasis(ctx, f.user.ID, holdings[0].ID, dec("120.5"))
	require.NoError(t, err)

	resync := []models.Holding{{
		SecurityID:        sec.ID,
		Quantity:          *dec("12"),
		Value:             *dec("2280"),
		CostBasisProvider: dec("155"),
	}}
	require.NoError(t, f.store.SyncHoldings(ctx, f.account.ID, resync))

	listed, err := f.store.ListAccountHoldings(ctx, f.user.ID, f.account.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	h := listed[0]
	assert.True(t, h.Quantity.Equal(*dec("12")))
	assert.True(t, h.CostBasis.Equal(*dec("120.5")), h.CostBasis.String())
	assert.True(t, h.CostBasisProvider.Equal(*dec("155")))
	require.NotNil(t, h.Security)
	assert.Equal(t, "AAPL", *h.Security.Symbol)

	got, err := f.store.SetHoldingCostBasis(ctx, f.user.ID, h.ID, nil)
	require.NoError(t, err)
	assert.True(t, got.CostBasis.Equal(*dec("155")), "cleared override falls back to provider value")
}

func TestDeleteConnectionCascades(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	s := f.store

	sec := &models.Security{PlaidSecurityID: ptr("sec-1")}
	require.NoError(t, s.UpsertSecurity(ctx, sec))
	require.NoError(t, s.SyncTransactions(ctx, f.account.ID, []models.Transaction{
		{Date: day(2024, 1, 2), Name: "t", Amount: *dec("1"), PlaidTransactionID: ptr("t-1")},
	}))
	require.NoError(t, s.SyncInvestmentTransactions(ctx, f.account.ID, []models.InvestmentTransaction{
		{Date: day(2024, 1, 2), Name: "buy", Amount: *dec("100"), Quantity: *dec("1"), Price: *dec("100"),
			PlaidInvestmentTransactionID: ptr("it-1"), PlaidType: ptr("buy"), SecurityID: &sec.ID},
	}))
	require.NoError(t, s.SyncHoldings(ctx, f.account.ID, []models.Holding{
		{SecurityID: sec.ID, Quantity: *dec("1"), Value: *dec("100")},
	}))
	require.NoError(t, s.UpsertAccountBalances(ctx, []models.AccountBalance{
		{AccountID: f.account.ID, Date: day(2024, 1, 2), Balance: *dec("1000")},
	}))
	require.NoError(t, s.UpsertValuation(ctx, &models.Valuation{
		AccountID: f.account.ID, Source: models.ValuationSourceAPI, Date: day(2024, 1, 2), Value: *dec("1000"),
	}))

	require.NoError(t, s.DeleteConnection(ctx, f.user.ID, f.conn.ID))

	for _, model := range []interface{}{
		&models.AccountConnection{}, &models.Account{}, &models.Transaction{},
		&models.InvestmentTransaction{}, &models.Holding{}, &models.AccountBalance{}, &models.Valuation{},
	} {
		assert.Zero(t, count(t, s, model), "%T", model)
	}
	assert.EqualValues(t, 1, count(t, s, &models.Security{}), "securities are shared and survive")
	assert.EqualValues(t, 1, count(t, s, &models.User{}))
}

func TestUpsertSecurity(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := &models.Security{Symbol: ptr("VTI"), FinicitySecurityID: ptr("922908769"), FinicitySecurityIDType: ptr("CUSIP")}
	require.NoError(t, s.UpsertSecurity(ctx, first))

	second := &models.Security{Symbol: ptr("VTI2"), FinicitySecurityID: ptr("922908769"), FinicitySecurityIDType: ptr("CUSIP")}
	require.NoError(t, s.UpsertSecurity(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 1, count(t, s, &models.Security{}))

	assert.ErrorIs(t, s.UpsertSecurity(ctx, &models.Security{Symbol: ptr("X")}), ErrMissingProviderID)
}
