package derive

import "github.com/shopspring/decimal"

// FlowFor returns INFLOW for strictly negative amounts and OUTFLOW otherwise,
// so a zero amount is an outflow.
func FlowFor(amount decimal.Decimal) Flow {
	if amount.IsNegative() {
		return FlowInflow
	}
	return FlowOutflow
}
