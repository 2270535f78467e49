package money

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is a non-negative decimal amount rounded to 2 places.
// The currency is tracked separately (platform / price list level).
type Money struct {
	amount decimal.Decimal
}

func Zero() Money {
	return Money{amount: decimal.Zero}
}

func New(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(2)}, nil
}

// MustFromString builds Money from a decimal literal, panicking on bad input.
// For constants in tests and seeds only.
func MustFromString(s string) Money {
	m, err := New(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

func FromDecimal(amount decimal.Decimal) Money {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Money{amount: amount.Round(2)}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount).Round(2)}
}

// SubClamped subtracts other, flooring at zero.
func (m Money) SubClamped(other Money) Money {
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return Money{amount: result.Round(2)}
}

// Percent returns p percent of the amount, rounded to 2 places.
func (m Money) Percent(p decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(p).Div(decimal.NewFromInt(100)).Round(2)}
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if m.amount.GreaterThan(other.amount) {
		return other
	}
	return m
}

func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON renders a fixed 2-decimal string, matching the wire format
// the admin tooling expects for prices.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.Round(2).StringFixed(2))
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	m.amount = d.Round(2)
	return nil
}
