// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaleunit formats measurements with SI prefixes.
package scaleunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler represents a scaling factor for a number and
// its scientific representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 m => 0.001)
	Prefix string  // Unit prefix ("k", "m", "µ", etc)
}

// Format formats val and appends the unit prefix and unit according
// to the given scale. For example, a millisecond Scaler formats
// Format(0.0123, "s") as "12.30ms".
func (s Scaler) Format(val float64, unit string) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	buf = append(buf, unit...)
	return string(buf)
}

// NoOpScaler formats numbers with the smallest number of digits
// necessary to capture the exact value, and no prefix.
var NoOpScaler = Scaler{-1, 1, ""}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

var siFactors = mkSIFactors()

func mkSIFactors() []factor {
	// Thresholds are derived from the printed representation so
	// they match how printing itself rounds.
	var factors []factor
	exp := 3
	for _, p := range []string{"k", "", "m", "µ", "n"} {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		factors = append(factors, factor{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return factors
}

// Scale formats val with at least three significant digits,
// followed by an SI prefix and unit.
func Scale(val float64, unit string) string {
	return CommonScale([]float64{val}).Format(val, unit)
}

// CommonScale returns a common Scaler to apply to all values in vals.
// This scale will show at least three significant digits for every
// value.
func CommonScale(vals []float64) Scaler {
	// The common scale is determined by the non-zero value
	// closest to zero.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	for _, f := range siFactors {
		switch {
		case min >= f.t100:
			return Scaler{1, f.factor, f.prefix}
		case min >= f.t10:
			return Scaler{2, f.factor, f.prefix}
		case min >= f.t1:
			return Scaler{3, f.factor, f.prefix}
		}
	}

	// Below the smallest prefix: use it with extra precision.
	f := siFactors[len(siFactors)-1]
	prec := 3
	for v := min / f.factor; v < 0.99995 && prec < 10; v *= 10 {
		prec++
	}
	return Scaler{prec, f.factor, f.prefix}
}
