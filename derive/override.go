package derive

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ErrUnknownBalanceStrategy = fmt.Errorf("unknown balance strategy")

// Coalesce returns the first non-nil value, or nil.
func Coalesce[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// CoalesceString returns the first non-nil value, or fallback.
func CoalesceString(fallback string, values ...*string) string {
	if v := Coalesce(values...); v != nil {
		return *v
	}
	return fallback
}

// CoalesceJSON returns the first value that is neither empty nor JSON null.
// A nil result is stored as SQL NULL.
func CoalesceJSON(values ...datatypes.JSON) datatypes.JSON {
	for _, v := range values {
		if !IsNullJSON(v) {
			return v
		}
	}
	return nil
}

// IsNullJSON reports whether raw is empty or the JSON literal null. A NULL
// column scanned into datatypes.JSON reads back as "null".
func IsNullJSON(raw datatypes.JSON) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// BalanceSources are the provider-reported values a balance strategy draws
// from.
type BalanceSources struct {
	Current   *decimal.Decimal
	Available *decimal.Decimal
}

type balanceFunc func(BalanceSources) *decimal.Decimal

var balanceStrategies = map[BalanceStrategy]balanceFunc{
	BalanceStrategyCurrent:   func(s BalanceSources) *decimal.Decimal { return clone(s.Current) },
	BalanceStrategyAvailable: func(s BalanceSources) *decimal.Decimal { return clone(s.Available) },
	BalanceStrategySum: func(s BalanceSources) *decimal.Decimal {
		return combine(s, decimal.Decimal.Add)
	},
	BalanceStrategyDifference: func(s BalanceSources) *decimal.Decimal {
		return combine(s, decimal.Decimal.Sub)
	},
}

// combine treats a single missing operand as zero; two missing operands
// yield nil.
func combine(s BalanceSources, op func(decimal.Decimal, decimal.Decimal) decimal.Decimal) *decimal.Decimal {
	if s.Current == nil && s.Available == nil {
		return nil
	}
	a, b := decimal.Zero, decimal.Zero
	if s.Current != nil {
		a = *s.Current
	}
	if s.Available != nil {
		b = *s.Available
	}
	v := op(a, b)
	return &v
}

// ValidBalanceStrategy reports whether s names a known strategy.
func ValidBalanceStrategy(s BalanceStrategy) bool {
	_, ok := balanceStrategies[s]
	return ok
}

// ResolveBalance returns the user's balance when set, otherwise the value
// computed by the selected strategy. The result never aliases an input.
func ResolveBalance(user *decimal.Decimal, strategy BalanceStrategy, src BalanceSources) (*decimal.Decimal, error) {
	fn, ok := balanceStrategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBalanceStrategy, strategy)
	}
	if user != nil {
		return clone(user), nil
	}
	return fn(src), nil
}

func clone(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// FullName joins the non-empty name parts. It returns nil when there are
// none.
func FullName(first, last *string) *string {
	var parts []string
	for _, p := range []*string{first, last} {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	name := strings.Join(parts, " ")
	return &name
}
