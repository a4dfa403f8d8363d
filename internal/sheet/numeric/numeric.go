// Package numeric holds the coercion and formatting helpers every sheet
// calculation goes through. Nothing here returns an error: invalid input is
// replaced with a caller-supplied fallback.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Coerce converts a loosely typed value (as decoded from JSON) into a finite
// number. Numeric strings parse, booleans map to 1/0 and the empty string is
// 0; anything else yields fallback.
func Coerce(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return Finite(v, fallback)
	case float32:
		return Finite(float64(v), fallback)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fallback
		}
		return Finite(f, fallback)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		return Finite(f, fallback)
	default:
		return fallback
	}
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

// Floor returns the floor of v as an int.
func Floor(v float64) int {
	return int(math.Floor(v))
}

// Round rounds half up, so 0.5 becomes 1 and -0.5 becomes 0.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Signed renders v with an explicit sign: "+3", "-1", "+0".
func Signed(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v >= 0 {
		return "+" + s
	}
	return s
}

// SignedInt is Signed for integer values.
func SignedInt(v int) string {
	if v >= 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
