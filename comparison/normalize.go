package comparison

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"ordermatch-backend/models"

	"github.com/shopspring/decimal"
)

// normalizeText case-folds s and collapses runs of whitespace
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// stripPunctuation case-folds s, turns every non letter/digit into a space and collapses whitespace
func stripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// isBlank reports whether an extracted value carries no information
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

var amountPattern = regexp.MustCompile(
	`^([A-Za-z]{3})?\s*([$€£¥₹])?\s*(-?[0-9](?:[0-9.,' ]*[0-9])?)\s*([$€£¥₹])?\s*([A-Za-z]{3})?\s*(%)?$`,
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR",
}

var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "INR": true, "CNY": true,
	"CAD": true, "AUD": true, "CHF": true, "SEK": true, "NOK": true, "DKK": true,
	"NZD": true, "SGD": true, "HKD": true, "MXN": true, "BRL": true, "ZAR": true,
	"AED": true, "SAR": true, "IDR": true, "MYR": true, "THB": true, "PHP": true,
}

// amount is a parsed numeric value with the unit that accompanied it, if any
type amount struct {
	value decimal.Decimal
	unit  string
}

func (a amount) hasCurrency() bool {
	return currencyCodes[a.unit]
}

// parseAmount reads text such as "1,234.50", "USD 100", "€ 99,95" or "15%"
func parseAmount(raw string) (amount, bool) {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return amount{}, false
	}

	var units []string
	for _, u := range []string{m[1], m[5]} {
		if u != "" {
			units = append(units, strings.ToUpper(u))
		}
	}
	for _, sym := range []string{m[2], m[4]} {
		if sym != "" {
			units = append(units, currencySymbols[sym])
		}
	}
	if m[6] != "" {
		units = append(units, "%")
	}
	unit := ""
	for _, u := range units {
		if unit != "" && u != unit {
			return amount{}, false
		}
		unit = u
	}

	value, err := decimal.NewFromString(normalizeNumber(m[3]))
	if err != nil {
		return amount{}, false
	}
	return amount{value: value, unit: unit}, true
}

// normalizeNumber rewrites locale-formatted digits into a plain decimal literal
func normalizeNumber(s string) string {
	s = strings.NewReplacer(" ", "", "'", "").Replace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseDate tries the known document date layouts in order
func parseDate(raw string) (time.Time, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// valueVerdict is the outcome of comparing two raw values
type valueVerdict struct {
	equivalent bool
	quality    models.MatchQuality
	reason     string
}

// compareValues decides whether two non-blank extracted values are equivalent
func (p Policy) compareValues(a, b string) valueVerdict {
	if normalizeText(a) == normalizeText(b) {
		return valueVerdict{equivalent: true, quality: models.MatchExact}
	}

	if x, ok := parseDate(a); ok {
		if y, ok := parseDate(b); ok {
			if x.Equal(y) {
				return valueVerdict{equivalent: true, quality: models.MatchFuzzy}
			}
			return valueVerdict{reason: "dates differ"}
		}
	}

	if x, ok := parseAmount(a); ok {
		if y, ok := parseAmount(b); ok {
			return p.compareAmounts(x, y)
		}
	}

	if pa := stripPunctuation(a); pa != "" && pa == stripPunctuation(b) {
		return valueVerdict{equivalent: true, quality: models.MatchFuzzy}
	}

	return valueVerdict{reason: "values differ"}
}

// compareIdentifiers matches document numbers without numeric or date interpretation
func compareIdentifiers(a, b string) valueVerdict {
	if normalizeText(a) == normalizeText(b) {
		return valueVerdict{equivalent: true, quality: models.MatchExact}
	}
	if pa := stripPunctuation(a); pa != "" && pa == stripPunctuation(b) {
		return valueVerdict{equivalent: true, quality: models.MatchFuzzy}
	}
	return valueVerdict{reason: "values differ"}
}

// compareAmounts compares two parsed amounts. Equal values are EXACT only when both sides carry the
// same unit or none; a unit on one side only is FUZZY, since the bare number cannot confirm the currency.
func (p Policy) compareAmounts(x, y amount) valueVerdict {
	if x.unit != "" && y.unit != "" && x.unit != y.unit {
		if x.hasCurrency() && y.hasCurrency() {
			return valueVerdict{reason: fmt.Sprintf("currency units differ (%s vs %s)", x.unit, y.unit)}
		}
		return valueVerdict{reason: fmt.Sprintf("units differ (%s vs %s)", x.unit, y.unit)}
	}

	oneSideUnit := (x.unit == "") != (y.unit == "")

	if x.value.Equal(y.value) {
		if oneSideUnit {
			return valueVerdict{equivalent: true, quality: models.MatchFuzzy}
		}
		return valueVerdict{equivalent: true, quality: models.MatchExact}
	}

	if p.withinTolerance(x.value, y.value) {
		return valueVerdict{equivalent: true, quality: models.MatchFuzzy}
	}

	reason := "values differ by " + x.value.Sub(y.value).Abs().String()
	if oneSideUnit {
		if x.hasCurrency() || y.hasCurrency() {
			reason += "; one side missing currency unit"
		} else {
			reason += "; one side missing unit"
		}
	}
	return valueVerdict{reason: reason}
}

// withinTolerance reports whether |x-y| is strictly below the relative tolerance
// measured against the smaller magnitude
func (p Policy) withinTolerance(x, y decimal.Decimal) bool {
	if p.NumericTolerance.IsZero() {
		return false
	}
	base := decimal.Min(x.Abs(), y.Abs())
	if base.IsZero() {
		return false
	}
	return x.Sub(y).Abs().LessThan(base.Mul(p.NumericTolerance))
}
