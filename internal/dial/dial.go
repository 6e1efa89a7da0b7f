// Package dial generates and parses dial schedule strings.
//
// A dial schedule is the multiplier path applied to a transition's baseline
// output: a flat segment at the full multiplier, then a linear per-month ramp
// back down to 1.0x, then a fixed identity tail. Two shapes are in production
// use; both keep a 23-month ramp:
//
//	1.05x for 36 <ramp tokens> 1.0x for 1 1x
//	1.05x for 48 <ramp tokens> 1.0x for 1 1x
//
// The flat and ramp lengths are explicit parameters so neither shape is
// privileged in code.
package dial

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// The two schedule shapes in production use.
const (
	// DefaultFlatMonths is the flat segment length for current models.
	DefaultFlatMonths = 48

	// LegacyFlatMonths is the flat segment length used by older model vintages.
	LegacyFlatMonths = 36

	// DefaultRampMonths is the ramp length shared by both shapes.
	DefaultRampMonths = 23
)

var multiplierRe = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)x\b`)

// Schedule builds the dial string for a scalar multiplier x.
//
// The ramp interpolates linearly from x down to 1.0 over rampMonths steps:
// step i of N has value ((N+1-i)*x + i-1) / N, rounded to 3 decimals. The
// string ends with the fixed identity tail "1.0x for 1 1x".
func Schedule(x float64, flatMonths, rampMonths int) (string, error) {
	if flatMonths <= 0 {
		return "", errors.Newf("flat months must be > 0 (got %d)", flatMonths)
	}
	if rampMonths <= 0 {
		return "", errors.Newf("ramp months must be > 0 (got %d)", rampMonths)
	}

	x = round3(x)
	parts := make([]string, 0, rampMonths+2)
	parts = append(parts, fmt.Sprintf("%sx for %d", TrimFloat(x), flatMonths))

	n := float64(rampMonths)
	for i := 1; i <= rampMonths; i++ {
		val := round3(((n+1-float64(i))*x + float64(i) - 1) / n)
		parts = append(parts, fmt.Sprintf("%sx for 1", TrimFloat(val)))
	}

	parts = append(parts, "1.0x for 1 1x")
	return strings.Join(parts, " "), nil
}

// TrimFloat formats a float without trailing zeros ("1.050" becomes "1.05",
// "1.000" becomes "1").
func TrimFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// ParseMultiplier extracts the leading "<number>x" multiplier from a dial
// schedule string. Returns def when the string does not start with one.
func ParseMultiplier(schedule string, def float64) float64 {
	m := multiplierRe.FindStringSubmatch(schedule)
	if m == nil {
		return def
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return def
	}
	return v
}

// IsIdentity reports whether a multiplier rounds to 1.0 at 3 decimals.
// Identity dials carry no information and are the signal to retire a shock.
func IsIdentity(x float64) bool {
	return round3(x) == 1.0
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
