package domain

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Money values are decimal with exactly 2 fraction digits at rest; unit
// prices carry 4. The library rounds half to even, while price totals
// must round half up to match what the provider is charged, so the
// rounding is spelled out here.

const priceScale = 2

// RoundHalfUpPrice rounds d to 2 fraction digits, half away from zero
// for the non-negative amounts used here.
func RoundHalfUpPrice(d decimal.Decimal) (decimal.Decimal, error) {
	truncated := d.Trunc(priceScale)
	rest, err := d.Sub(truncated)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rounding price: %w", err)
	}
	half := decimal.MustNew(5, priceScale+1)
	if rest.Cmp(half) >= 0 {
		truncated, err = truncated.Add(decimal.MustNew(1, priceScale))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("rounding price: %w", err)
		}
	}
	return truncated.Pad(priceScale), nil
}

// TotalPrice computes quantity x unitPrice rounded to 2 fraction digits.
func TotalPrice(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	qty, err := decimal.New(int64(quantity), 0)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("quantity to decimal: %w", err)
	}
	total, err := unitPrice.Mul(qty)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price multiplication: %w", err)
	}
	return RoundHalfUpPrice(total)
}

// AmountInCents converts a 2-digit price to integer cents. The result
// must exactly match what the gateway is asked to charge.
func AmountInCents(price decimal.Decimal) (int64, error) {
	whole, frac, ok := price.Int64(priceScale)
	if !ok {
		return 0, fmt.Errorf("price %s does not fit in cents", price)
	}
	return whole*100 + frac, nil
}
