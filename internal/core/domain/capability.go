package domain

import "github.com/shopspring/decimal"

// Capability is the static descriptor of what one gateway can serve:
// currencies, payment methods, and amount bounds. Built once at startup
// from configuration, never mutated afterwards.
type Capability struct {
	Currencies []string
	Methods    []string
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
}

// SupportsCurrency reports whether the gateway accepts the given currency.
func (c Capability) SupportsCurrency(currency string) bool {
	for _, cur := range c.Currencies {
		if cur == currency {
			return true
		}
	}
	return false
}

// SupportsMethod reports whether the gateway accepts the given payment method.
func (c Capability) SupportsMethod(method string) bool {
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// SupportsAmount reports whether the amount falls within the gateway's bounds.
// A zero MaxAmount means no upper bound.
func (c Capability) SupportsAmount(amount decimal.Decimal) bool {
	if amount.LessThan(c.MinAmount) {
		return false
	}
	if !c.MaxAmount.IsZero() && amount.GreaterThan(c.MaxAmount) {
		return false
	}
	return true
}
