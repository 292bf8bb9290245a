// Package derive computes the effective columns of the finance schema from
// their user-override and provider-supplied inputs.
//
// Every function here is pure. The models package calls them from its save
// hooks so a derived column is always recomputed in the same write that
// changed one of its inputs.
package derive

type AccountType string

const (
	AccountTypeInvestment     AccountType = "INVESTMENT"
	AccountTypeDepository     AccountType = "DEPOSITORY"
	AccountTypeCredit         AccountType = "CREDIT"
	AccountTypeLoan           AccountType = "LOAN"
	AccountTypeProperty       AccountType = "PROPERTY"
	AccountTypeVehicle        AccountType = "VEHICLE"
	AccountTypeOtherAsset     AccountType = "OTHER_ASSET"
	AccountTypeOtherLiability AccountType = "OTHER_LIABILITY"
)

type Classification string

const (
	ClassificationAsset     Classification = "asset"
	ClassificationLiability Classification = "liability"
)

// BalanceStrategy selects which provider values feed a derived balance.
type BalanceStrategy string

const (
	BalanceStrategyCurrent    BalanceStrategy = "current"
	BalanceStrategyAvailable  BalanceStrategy = "available"
	BalanceStrategySum        BalanceStrategy = "sum"
	BalanceStrategyDifference BalanceStrategy = "difference"
)

type Flow string

const (
	FlowInflow  Flow = "INFLOW"
	FlowOutflow Flow = "OUTFLOW"
)

type InvestmentTransactionCategory string

const (
	InvestmentCategoryBuy      InvestmentTransactionCategory = "buy"
	InvestmentCategorySell     InvestmentTransactionCategory = "sell"
	InvestmentCategoryDividend InvestmentTransactionCategory = "dividend"
	InvestmentCategoryTax      InvestmentTransactionCategory = "tax"
	InvestmentCategoryFee      InvestmentTransactionCategory = "fee"
	InvestmentCategoryTransfer InvestmentTransactionCategory = "transfer"
	InvestmentCategoryCancel   InvestmentTransactionCategory = "cancel"
	InvestmentCategoryOther    InvestmentTransactionCategory = "other"
)

// Account category/subcategory fallback when neither the user nor the
// provider supplied one.
const AccountCategoryOther = "other"

// Transaction category literals. Downstream consumers branch on these exact
// strings.
const (
	CategoryIncome            = "Income"
	CategoryHousingPayments   = "Housing Payments"
	CategoryVehiclePayments   = "Vehicle Payments"
	CategoryOtherLoanPayments = "Other Loan Payments"
	CategoryHomeImprovement   = "Home Improvement"
	CategoryShopping          = "Shopping"
	CategoryUtilities         = "Utilities"
	CategoryFoodAndDrink      = "Food and Drink"
	CategoryTransportation    = "Transportation"
	CategoryTravel            = "Travel"
	CategoryHealth            = "Health"
	CategoryOther             = "Other"
)
