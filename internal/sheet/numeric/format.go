package numeric

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ScientificThreshold is the magnitude at which FormatLargeNumber switches
// to scientific notation.
const ScientificThreshold = 10_000_000

// FormatLargeNumber renders power-level sized values. Magnitudes below
// ScientificThreshold use en-US digit grouping with up to three fraction
// digits ("9,999,999"); larger ones use two-digit scientific notation
// without an exponent sign or padding ("1.00e7").
func FormatLargeNumber(v float64) string {
	v = Finite(v, 0)
	if math.Abs(v) >= ScientificThreshold {
		return scientific(v)
	}
	return message.NewPrinter(language.AmericanEnglish).Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

func scientific(v float64) string {
	formatted := strconv.FormatFloat(v, 'e', 2, 64)
	mantissa, exp, found := strings.Cut(formatted, "e")
	if !found {
		return formatted
	}
	exponent, err := strconv.Atoi(exp)
	if err != nil {
		return formatted
	}
	return mantissa + "e" + strconv.Itoa(exponent)
}
