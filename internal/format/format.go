// Package format converts raw backend values into display strings.
package format

import (
	"fmt"
	"time"

	"github.com/Veraticus/bankdash/internal/model"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown for dates that cannot be parsed.
const NotAvailable = "N/A"

const (
	displayDateLayout = "02.01.2006"
	inputDateLayout   = "02-01-2006"
)

// Tone classifies a signed value for coloring.
type Tone int

const (
	// TonePositive marks zero and positive values.
	TonePositive Tone = iota
	// ToneNegative marks values below zero.
	ToneNegative
)

// String returns the CSS class name the web client used for the tone.
func (t Tone) String() string {
	if t == ToneNegative {
		return "negative"
	}
	return "positive"
}

// Date renders an ISO date or timestamp as DD.MM.YYYY. The calendar date is
// taken as written, without converting to the local time zone.
func Date(s string) string {
	t, ok := model.ParseDate(s)
	if !ok {
		return NotAvailable
	}
	return t.Format(displayDateLayout)
}

// OptionalDate renders a nullable date.
func OptionalDate(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return Date(*s)
}

// Fixed2 renders an amount with exactly two decimals.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Dollar renders an amount the way the transaction and contract tables do: "$-12.50".
func Dollar(d decimal.Decimal) string {
	return "$" + Fixed2(d)
}

// Euro renders an amount the way the performance panel does: "-12.50 €".
func Euro(d decimal.Decimal) string {
	return Fixed2(d) + " €"
}

// Percent renders a percentage: "4.20 %".
func Percent(d decimal.Decimal) string {
	return Fixed2(d) + " %"
}

// Sign returns the display tone of d.
func Sign(d decimal.Decimal) Tone {
	if d.IsNegative() {
		return ToneNegative
	}
	return TonePositive
}

// ISODate renders t as YYYY-MM-DD for request paths.
func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseInputDate parses a user supplied date in DD-MM-YYYY or YYYY-MM-DD form.
func ParseInputDate(s string) (time.Time, error) {
	if t, err := time.Parse(inputDateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD-MM-YYYY or YYYY-MM-DD", s)
	}
	return t, nil
}
