package primitive

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ToInt converts a field value to an integer the way loosely typed export
// data expects: numeric strings are parsed, strings with a numeric prefix
// keep the prefix ("12abc" is 12), everything else non-numeric becomes 0.
// Floats are truncated toward zero and out-of-range values saturate.
func ToInt(v any) int {
	switch Of(v) {
	default:
		return 0
	case KindInt:
		rv := reflect.ValueOf(v)
		if rv.CanInt() {
			return clampInt64(rv.Int())
		}

		u := rv.Uint()
		if u > math.MaxInt {
			return math.MaxInt
		}

		return int(u)
	case KindFloat:
		return truncFloat(reflect.ValueOf(v).Float())
	case KindBool:
		if reflect.ValueOf(v).Bool() {
			return 1
		}

		return 0
	case KindString:
		return parseIntPrefix(reflect.ValueOf(v).String())
	}
}

// ToString renders a scalar field value as text. Non-scalar values
// (lists, records, nil) render as the empty string.
func ToString(v any) string {
	kind := Of(v)
	if !kind.IsScalar() {
		return ""
	}

	rv := reflect.ValueOf(v)

	switch kind {
	case KindInt:
		if rv.CanInt() {
			return strconv.FormatInt(rv.Int(), 10)
		}

		return strconv.FormatUint(rv.Uint(), 10)
	case KindFloat:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case KindBool:
		if rv.Bool() {
			return "1"
		}

		return ""
	default:
		return rv.String()
	}
}

func parseIntPrefix(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	// whole numeric strings, including exponent and fraction forms
	if whole := strings.TrimRight(s, " \t\n\r\v\f"); isDecimal(whole) {
		if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return clampInt64(n)
		}

		if f, err := strconv.ParseFloat(whole, 64); err == nil || f != 0 {
			return truncFloat(f)
		}
	}

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt
		}

		return math.MaxInt
	}

	return clampInt64(n)
}

// isDecimal rejects the hex, infinity and NaN forms strconv would accept.
func isDecimal(s string) bool {
	return s != "" && strings.Trim(s, "0123456789+-.eE") == ""
}

func truncFloat(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}

	return int(f)
}

func clampInt64(n int64) int {
	switch {
	case n > math.MaxInt:
		return math.MaxInt
	case n < math.MinInt:
		return math.MinInt
	}

	return int(n)
}
