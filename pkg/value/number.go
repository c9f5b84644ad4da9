package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/errors"
)

// roundPlaces is the number of decimal places kept by the round setting.
const roundPlaces = 4

// Number is a computed value ready for emission. Integer is set when the
// rounding policy produced a whole number, so it prints without a fraction.
type Number struct {
	Value   float64
	Integer bool
}

// Int returns an integral Number.
func Int(n int64) Number {
	return Number{Value: float64(n), Integer: true}
}

// Float returns a fractional Number.
func Float(f float64) Number {
	return Number{Value: f}
}

// Float64 returns the numeric value.
func (n Number) Float64() float64 {
	return n.Value
}

// String formats integers as "210" and fractional values with the shortest
// representation that round-trips and at least one decimal, e.g. "2.1235" or
// "200.0".
func (n Number) String() string {
	if n.Integer && math.Abs(n.Value) < 1<<63 {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	if n.Integer {
		return strconv.FormatFloat(n.Value, 'f', 0, 64)
	}
	abs := math.Abs(n.Value)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(n.Value, 'e', -1, 64)
	}
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Round applies a rounding setting to a computed value.
//
// With round (the default when mode is empty), whole numbers come back as
// integers and anything else is rounded to four decimal places. Ties are
// decided on the exact binary value, so 2.00005 becomes 2.0 and 1234.56785
// becomes 1234.5678. With truncate, the fraction is dropped toward zero.
//
// Non-finite values fail with ErrCodeDivisionByZero: they only come out of a
// division by zero somewhere upstream.
func Round(v float64, mode config.RoundSetting) (Number, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, errors.New(errors.ErrCodeDivisionByZero, "value %v is not a finite number", v)
	}
	switch mode {
	case config.RoundNearest, "":
		if v == math.Trunc(v) {
			return Number{Value: v, Integer: true}, nil
		}
		// Formatting rounds the exact binary value once, like Python's round.
		r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', roundPlaces, 64), 64)
		if err != nil {
			return Number{}, errors.Wrap(errors.ErrCodeInternal, err, "round %v", v)
		}
		return Number{Value: r}, nil
	case config.RoundTruncate:
		return Number{Value: math.Trunc(v), Integer: true}, nil
	default:
		return Number{}, errors.New(errors.ErrCodeConfigInvalid, "unknown roundSetting %q", mode)
	}
}
