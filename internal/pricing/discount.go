package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountAmount     DiscountType = "AMOUNT"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch DiscountType(s) {
	case DiscountPercentage, DiscountAmount:
		return DiscountType(s), nil
	default:
		return "", fmt.Errorf("unknown discount type: %s", s)
	}
}

// DiscountPrice applies discount to price and never returns less than zero.
//
// Rules:
// - nil or zero discount returns price unchanged, whatever the type.
// - PERCENTAGE discount is a fraction (0.1 is 10%) applied to price.
// - AMOUNT discount is subtracted as is.
// - Unknown types leave price unchanged.
func DiscountPrice(price decimal.Decimal, discount *decimal.Decimal, typ DiscountType) decimal.Decimal {
	if discount == nil || discount.IsZero() {
		return price
	}

	var out decimal.Decimal
	switch typ {
	case DiscountPercentage:
		out = price.Sub(price.Mul(*discount))
	case DiscountAmount:
		out = price.Sub(*discount)
	default:
		return price
	}

	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
