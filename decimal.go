// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Decimal is an exact fixed-point number: Unscaled * 10^-Scale.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

var bigTen = big.NewInt(10)

// NewDecimal returns unscaled * 10^-scale.
func NewDecimal(unscaled *big.Int, scale int) Decimal {
	return Decimal{unscaled: new(big.Int).Set(unscaled), scale: scale}
}

// ParseDecimal parses a plain decimal literal, keeping every digit it has.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, fmt.Errorf("empty decimal literal")
	}
	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return Decimal{}, fmt.Errorf("invalid exponent in %q", s)
		}
		exp = e
	}
	digits, scale := mantissa, 0
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		digits = mantissa[:i] + mantissa[i+1:]
		scale = len(mantissa) - i - 1
	}
	body := strings.TrimLeft(digits, "+-")
	if body == "" || len(digits)-len(body) > 1 || strings.Trim(body, "0123456789") != "" {
		return Decimal{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	// exponents past this cannot land inside any declared precision
	if maxExp := maxDecimalPrecision + len(body); exp > maxExp || exp < -maxExp {
		return Decimal{}, fmt.Errorf("exponent out of range in %q", s)
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	scale -= exp
	if scale < 0 {
		unscaled.Mul(unscaled, new(big.Int).Exp(bigTen, big.NewInt(int64(-scale)), nil))
		scale = 0
	}
	return Decimal{unscaled: unscaled, scale: scale}, nil
}

// Unscaled returns a copy of the unscaled integer value.
func (d Decimal) Unscaled() *big.Int {
	if d.unscaled == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.unscaled)
}

// Scale returns the number of digits after the decimal point.
func (d Decimal) Scale() int {
	return d.scale
}

// Precision returns the number of significant digits of the unscaled value.
func (d Decimal) Precision() int {
	if d.unscaled == nil || d.unscaled.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(d.unscaled).String())
}

// rescale changes the scale without losing digits; ok is false if non-zero
// digits would be dropped.
func (d Decimal) rescale(scale int) (Decimal, bool) {
	u := d.Unscaled()
	switch {
	case scale > d.scale:
		u.Mul(u, new(big.Int).Exp(bigTen, big.NewInt(int64(scale-d.scale)), nil))
	case scale < d.scale:
		q, r := new(big.Int).QuoRem(u, new(big.Int).Exp(bigTen, big.NewInt(int64(d.scale-scale)), nil), new(big.Int))
		if r.Sign() != 0 {
			return d, false
		}
		u = q
	}
	return Decimal{unscaled: u, scale: scale}, true
}

// Round returns d at the given scale, rounding half away from zero.
func (d Decimal) Round(scale int) Decimal {
	if scale >= d.scale {
		r, _ := d.rescale(scale)
		return r
	}
	u := d.Unscaled()
	neg := u.Sign() < 0
	u.Abs(u)
	div := new(big.Int).Exp(bigTen, big.NewInt(int64(d.scale-scale)), nil)
	q, r := new(big.Int).QuoRem(u, div, new(big.Int))
	if r.Mul(r, big.NewInt(2)).Cmp(div) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if neg {
		q.Neg(q)
	}
	return Decimal{unscaled: q, scale: scale}
}

// Rat returns the exact rational value.
func (d Decimal) Rat() *big.Rat {
	den := new(big.Int).Exp(bigTen, big.NewInt(int64(d.scale)), nil)
	return new(big.Rat).SetFrac(d.Unscaled(), den)
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	f, _ := d.Rat().Float64()
	return f
}

// Int64 returns the value if it is integral and fits in an int64.
func (d Decimal) Int64() (int64, bool) {
	i, ok := d.rescale(0)
	if !ok || !i.unscaled.IsInt64() {
		return 0, false
	}
	return i.unscaled.Int64(), true
}

// Cmp compares the numeric values of d and o.
func (d Decimal) Cmp(o Decimal) int {
	return d.Rat().Cmp(o.Rat())
}

// String renders the value with exactly Scale fractional digits.
func (d Decimal) String() string {
	u := d.Unscaled()
	neg := u.Sign() < 0
	s := u.Abs(u).String()
	if d.scale > 0 {
		if len(s) <= d.scale {
			s = strings.Repeat("0", d.scale-len(s)+1) + s
		}
		s = s[:len(s)-d.scale] + "." + s[len(s)-d.scale:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
