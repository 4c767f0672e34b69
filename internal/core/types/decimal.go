// Package types holds the numeric types shared by every module: Money for
// amounts and Quantity for document line quantities.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. Arithmetic on it never rounds implicitly.
type Money = decimal.Decimal

// NewMoney creates a whole-number Money value.
func NewMoney(units int64) Money {
	return decimal.NewFromInt(units)
}

// MustMoney parses a literal amount and panics on malformed input.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Quantity is a line quantity stored as a fixed-point integer with four
// fractional digits. It marshals as a JSON number and accepts a number or a
// numeric string on input.
type Quantity int64

// QuantityScale is the number of stored units per whole unit.
const QuantityScale int64 = 10_000

const quantityExp = -4

var (
	maxScaled = decimal.NewFromInt(math.MaxInt64)
	minScaled = decimal.NewFromInt(math.MinInt64)
)

// NewQuantity creates a whole-unit quantity.
func NewQuantity(units int64) Quantity { return Quantity(units * QuantityScale) }

// ParseQuantity parses a decimal string such as "2" or "1.5". More than four
// fractional digits is an error rather than a silent truncation.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty quantity")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity: %w", err)
	}
	scaled := d.Shift(-quantityExp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("quantity %s has more than %d decimal places", s, -quantityExp)
	}
	if scaled.GreaterThan(maxScaled) || scaled.LessThan(minScaled) {
		return 0, fmt.Errorf("quantity %s is out of range", s)
	}
	return Quantity(scaled.IntPart()), nil
}

// Decimal returns the quantity as an exact decimal.
func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), quantityExp) }

// Units truncates the quantity to whole units.
func (q Quantity) Units() int64 { return int64(q) / QuantityScale }

func (q Quantity) Float64() float64 { return q.Decimal().InexactFloat64() }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// String renders the quantity without trailing zeros: "2", "1.5".
func (q Quantity) String() string { return q.Decimal().String() }

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	parsed, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
