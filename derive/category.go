package derive

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// PlaidPersonalFinanceCategory is the two-level taxonomy the richer
// aggregator attaches to each transaction.
type PlaidPersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

// FinicityCategorization is the flat categorization payload of the second
// aggregator. Only Category takes part in derivation.
type FinicityCategorization struct {
	NormalizedPayeeName string `json:"normalizedPayeeName,omitempty"`
	Category            string `json:"category"`
	BestRepresentation  string `json:"bestRepresentation,omitempty"`
	Country             string `json:"country,omitempty"`
}

type TransactionCategoryInput struct {
	CategoryUser                 *string
	PlaidPersonalFinanceCategory datatypes.JSON
	FinicityCategorization       datatypes.JSON
}

type taxonomy struct {
	plaid    PlaidPersonalFinanceCategory
	finicity FinicityCategorization
}

type categoryRule struct {
	category string
	match    func(taxonomy) bool
}

func primaryIs(values ...string) func(taxonomy) bool {
	return func(t taxonomy) bool { return oneOf(t.plaid.Primary, values) }
}

func detailedIs(values ...string) func(taxonomy) bool {
	return func(t taxonomy) bool { return oneOf(t.plaid.Detailed, values) }
}

func finicityIs(values ...string) func(taxonomy) bool {
	return func(t taxonomy) bool { return oneOf(t.finicity.Category, values) }
}

// transactionCategoryRules is evaluated top to bottom and the first match
// wins. The plaid ladder comes first, then the finicity ladder.
var transactionCategoryRules = []categoryRule{
	{CategoryIncome, primaryIs("INCOME")},
	{CategoryHousingPayments, detailedIs("LOAN_PAYMENTS_MORTGAGE_PAYMENT", "RENT_AND_UTILITIES_RENT")},
	{CategoryVehiclePayments, detailedIs("LOAN_PAYMENTS_CAR_PAYMENT")},
	{CategoryOtherLoanPayments, primaryIs("LOAN_PAYMENTS")},
	{CategoryHomeImprovement, primaryIs("HOME_IMPROVEMENT")},
	{CategoryShopping, primaryIs("GENERAL_MERCHANDISE")},
	{CategoryUtilities, func(t taxonomy) bool {
		return t.plaid.Primary == "RENT_AND_UTILITIES" && t.plaid.Detailed != "RENT_AND_UTILITIES_RENT"
	}},
	{CategoryFoodAndDrink, primaryIs("FOOD_AND_DRINK")},
	{CategoryTransportation, primaryIs("TRANSPORTATION")},
	{CategoryTransportation, detailedIs("GENERAL_SERVICES_AUTOMOTIVE")},
	{CategoryTravel, primaryIs("TRAVEL")},
	{CategoryHealth, primaryIs("PERSONAL_CARE", "MEDICAL")},

	{CategoryIncome, finicityIs("Income", "Paycheck", "Bonus", "Interest Income", "Reimbursement", "Rental Income")},
	{CategoryHousingPayments, finicityIs("Mortgage & Rent")},
	{CategoryVehiclePayments, finicityIs("Auto Payment")},
	{CategoryOtherLoanPayments, finicityIs("Loan Payment", "Student Loan")},
	{CategoryHomeImprovement, finicityIs("Home Improvement", "Home Services", "Home Supplies", "Furnishings", "Lawn & Garden")},
	{CategoryShopping, finicityIs("Shopping", "Clothing", "Electronics & Software", "Sporting Goods", "Books", "Hobbies")},
	{CategoryUtilities, finicityIs("Utilities", "Home Phone", "Mobile Phone", "Internet", "Television")},
	{CategoryFoodAndDrink, finicityIs("Food & Dining", "Alcohol & Bars", "Coffee Shops", "Fast Food", "Groceries", "Restaurants")},
	{CategoryTransportation, finicityIs("Auto & Transport", "Gas & Fuel", "Parking", "Public Transportation", "Service & Parts")},
	{CategoryTravel, finicityIs("Travel", "Air Travel", "Hotel", "Rental Car & Taxi", "Vacation")},
	{CategoryHealth, finicityIs("Health & Fitness", "Doctor", "Dentist", "Eyecare", "Pharmacy", "Gym", "Personal Care")},
}

// TransactionCategory returns the user's category when set, otherwise the
// first matching provider-taxonomy rule, otherwise "Other".
func TransactionCategory(in TransactionCategoryInput) string {
	if in.CategoryUser != nil {
		return *in.CategoryUser
	}

	var t taxonomy
	decodeJSON(in.PlaidPersonalFinanceCategory, &t.plaid)
	decodeJSON(in.FinicityCategorization, &t.finicity)

	for _, rule := range transactionCategoryRules {
		if rule.match(t) {
			return rule.category
		}
	}
	return CategoryOther
}

var (
	dividendSubtypes = []string{"dividend", "qualified dividend", "non-qualified dividend"}
	taxSubtypes      = []string{"non-resident tax", "tax", "tax withheld"}
	feeSubtypes      = []string{"account fee", "legal fee", "management fee", "margin expense", "transfer fee", "trust fee"}
)

// InvestmentCategory maps the provider's investment transaction type and
// subtype onto the canonical category. Rules are ordered; first match wins.
func InvestmentCategory(plaidType, plaidSubtype *string) InvestmentTransactionCategory {
	typ := deref(plaidType)
	subtype := deref(plaidSubtype)

	switch {
	case typ == "buy":
		return InvestmentCategoryBuy
	case typ == "sell":
		return InvestmentCategorySell
	case oneOf(subtype, dividendSubtypes):
		return InvestmentCategoryDividend
	case oneOf(subtype, taxSubtypes):
		return InvestmentCategoryTax
	case typ == "fee" || oneOf(subtype, feeSubtypes):
		return InvestmentCategoryFee
	case typ == "cash":
		return InvestmentCategoryTransfer
	case typ == "cancel":
		return InvestmentCategoryCancel
	default:
		return InvestmentCategoryOther
	}
}

func oneOf(v string, values []string) bool {
	if v == "" {
		return false
	}
	for _, candidate := range values {
		if v == candidate {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// decodeJSON leaves dst untouched when raw is absent or not an object.
func decodeJSON(raw datatypes.JSON, dst any) {
	if IsNullJSON(raw) {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
