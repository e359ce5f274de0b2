// Package amount parses user-supplied payment amounts.
package amount

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

// Parse accepts a decimal amount with either a dot or a comma as the
// decimal separator ("150.00" and "150,00" are equivalent). The comma
// form is a compatibility shim for pt-PT style input, not general
// locale handling: only the first comma is normalized. Zero, negative,
// empty and non-numeric input are rejected.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
