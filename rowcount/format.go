package rowcount

import (
	"math"
	"strconv"
	"strings"
)

// formatPercent renders delta/base as a percentage rounded to 3 significant figures.
func formatPercent(delta, base int) string {
	if base == 0 {
		return "inf"
	}
	return formatFloat(roundSignificant(100*float64(delta)/float64(base), 3))
}

// roundSignificant rounds x to n significant figures.
func roundSignificant(x float64, n int) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', n-1, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// formatFloat prints the shortest representation of x that always carries a decimal point ("100.0", "-33.3"),
// switching to exponent notation below 1e-4 and from 1e16.
func formatFloat(x float64) string {
	abs := math.Abs(x)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(x, 'e', -1, 64)
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
