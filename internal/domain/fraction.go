package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Fraction is an exact non-negative share of the estate.
// Shares are kept rational so that n thirds always add back to one.
// The underlying rational is never mutated once built; the zero value is 0.
type Fraction struct {
	r *big.Rat
}

var (
	FractionZero = Fraction{}
	FractionOne  = NewFraction(1, 1)
)

// NewFraction returns num/den in lowest terms. A zero denominator yields zero.
func NewFraction(num, den int64) Fraction {
	if den == 0 || num == 0 {
		return FractionZero
	}
	return Fraction{big.NewRat(num, den)}
}

// FractionFromPercent converts a decimal percentage (e.g. 33.5) into an exact fraction.
func FractionFromPercent(pct decimal.Decimal) Fraction {
	r, ok := new(big.Rat).SetString(pct.String())
	if !ok || r.Sign() == 0 {
		return FractionZero
	}
	return Fraction{r.Quo(r, big.NewRat(100, 1))}
}

func (f Fraction) rat() *big.Rat {
	if f.r == nil {
		return new(big.Rat)
	}
	return f.r
}

// Num and Den return copies of the reduced numerator and denominator.
func (f Fraction) Num() *big.Int { return new(big.Int).Set(f.rat().Num()) }
func (f Fraction) Den() *big.Int { return new(big.Int).Set(f.rat().Denom()) }

func (f Fraction) IsZero() bool { return f.rat().Sign() == 0 }

func (f Fraction) Add(o Fraction) Fraction {
	return Fraction{new(big.Rat).Add(f.rat(), o.rat())}
}

func (f Fraction) Sub(o Fraction) Fraction {
	return Fraction{new(big.Rat).Sub(f.rat(), o.rat())}
}

func (f Fraction) Mul(o Fraction) Fraction {
	return Fraction{new(big.Rat).Mul(f.rat(), o.rat())}
}

// Split divides the fraction into n equal parts.
func (f Fraction) Split(n int) Fraction {
	if n <= 0 {
		return FractionZero
	}
	return Fraction{new(big.Rat).Quo(f.rat(), big.NewRat(int64(n), 1))}
}

// Cmp compares two fractions.
func (f Fraction) Cmp(o Fraction) int {
	return f.rat().Cmp(o.rat())
}

// Of applies the fraction to an amount.
func (f Fraction) Of(amount decimal.Decimal) decimal.Decimal {
	if f.IsZero() {
		return decimal.Zero
	}
	r := f.rat()
	return amount.Mul(decimal.NewFromBigInt(r.Num(), 0)).Div(decimal.NewFromBigInt(r.Denom(), 0))
}

// Decimal returns the fraction as a decimal ratio.
func (f Fraction) Decimal() decimal.Decimal {
	return f.Of(decimal.NewFromInt(1))
}

// Percent returns the fraction as a percentage.
func (f Fraction) Percent() decimal.Decimal {
	return f.Of(decimal.NewFromInt(100))
}

func (f Fraction) String() string {
	return f.rat().String()
}
