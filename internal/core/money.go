// Package core provides money parsing and formatting utilities.
//
// Amounts are kept as shopspring decimals end to end; go-money is only used
// to render them for humans.
package core

import (
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the currency used when rendering amounts.
const DisplayCurrency = "USD"

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// ParseAmount converts a user supplied amount to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Values are rounded half away from zero to cents.
// Zero is rejected since a zero transaction carries no information.
//
// Examples:
//
//	ParseAmount("12.34")   -> 12.34
//	ParseAmount("-78,52")  -> -78.52
//	ParseAmount("1.005")   -> 1.01
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	dots := 0
	for _, r := range digits {
		switch {
		case r == '.':
			dots++
		case !unicode.IsDigit(r):
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if dots > 1 || digits == "." {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Cents returns the amount in minor units, rounded half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FormatMoney renders d as a currency string, e.g. "$1,234.56" or "-$4.75".
func FormatMoney(d decimal.Decimal) string {
	return money.New(Cents(d), DisplayCurrency).Display()
}

// Percent computes part / whole * 100 rounded to the nearest integer, with
// halves rounded toward positive infinity (12.5 -> 13, -2.5 -> -2). A zero
// whole yields 0.
func Percent(part, whole decimal.Decimal) int64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Add(half).Floor().IntPart()
}
