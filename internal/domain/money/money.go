// Package money holds the currency-safe amount type shared by the catalog
// and the transaction aggregate. All arithmetic happens in integer minor
// units (cents), never in floats.
package money

import (
	"fmt"
	"math"
)

// Amount represents a monetary amount in the smallest currency unit.
type Amount struct {
	Cents    int64
	Currency string
}

// FromFloat converts a decimal amount (e.g. from a JSON body or a SQL
// numeric column) to minor units, rounding half away from zero.
func FromFloat(value float64, currency string) Amount {
	return Amount{Cents: int64(math.Round(value * 100)), Currency: currency}
}

// Float64 returns the decimal representation of the amount. Use only at
// presentation boundaries.
func (a Amount) Float64() float64 {
	return float64(a.Cents) / 100.0
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	cents := a.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, a.Currency)
}

// Validate checks that the amount is positive and carries a currency code.
func (a Amount) Validate() error {
	if a.Cents <= 0 {
		return fmt.Errorf("amount must be greater than 0, got %d", a.Cents)
	}
	if len(a.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code, got %q", a.Currency)
	}
	return nil
}

// Times returns the amount multiplied by a unit count.
func (a Amount) Times(n int) Amount {
	return Amount{Cents: a.Cents * int64(n), Currency: a.Currency}
}

// Add returns the sum of two amounts. Both operands must share a
// currency; mixing currencies is a programming error and panics.
func (a Amount) Add(b Amount) Amount {
	if a.Currency != b.Currency {
		panic(fmt.Sprintf("money: cannot add %s to %s", b.Currency, a.Currency))
	}
	return Amount{Cents: a.Cents + b.Cents, Currency: a.Currency}
}

// IsZero reports whether the amount is zero cents.
func (a Amount) IsZero() bool { return a.Cents == 0 }
