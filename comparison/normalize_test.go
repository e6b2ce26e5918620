package comparison

import (
	"strings"
	"testing"

	"ordermatch-backend/models"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		value string
		unit  string
		ok    bool
	}{
		{"100.00", "100", "", true},
		{"100", "100", "", true},
		{"1,234.50", "1234.5", "", true},
		{"1.234,50", "1234.5", "", true},
		{"1,000", "1000", "", true},
		{"2,5", "2.5", "", true},
		{"1 000,50", "1000.5", "", true},
		{"USD 100", "100", "USD", true},
		{"100 usd", "100", "USD", true},
		{"$1,000", "1000", "USD", true},
		{"€ 99,95", "99.95", "EUR", true},
		{"15%", "15", "%", true},
		{"-3.5", "-3.5", "", true},
		{"Widget", "", "", false},
		{"", "", "", false},
		{"$100 EUR", "", "", false},
	}

	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		if ok != tt.ok {
			t.Errorf("parseAmount(%q): expected ok=%v, got %v", tt.in, tt.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if !got.value.Equal(decimal.RequireFromString(tt.value)) {
			t.Errorf("parseAmount(%q): expected value %s, got %s", tt.in, tt.value, got.value)
		}
		if got.unit != tt.unit {
			t.Errorf("parseAmount(%q): expected unit %q, got %q", tt.in, tt.unit, got.unit)
		}
	}
}

func TestParseDate(t *testing.T) {
	a, ok := parseDate("2024-01-05")
	if !ok {
		t.Fatal("expected ISO date to parse")
	}
	for _, in := range []string{"Jan 5, 2024", "January 5, 2024", "5 Jan 2024", "05-Jan-2024", "2024/01/05"} {
		b, ok := parseDate(in)
		if !ok {
			t.Errorf("expected %q to parse", in)
			continue
		}
		if !a.Equal(b) {
			t.Errorf("expected %q to equal 2024-01-05, got %s", in, b)
		}
	}
	if _, ok := parseDate("not a date"); ok {
		t.Error("expected free text not to parse as a date")
	}
}

func TestCompareValues(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name       string
		a, b       string
		equivalent bool
		quality    models.MatchQuality
		reason     string
	}{
		{"numeric formatting", "100.00", "100", true, models.MatchExact, ""},
		{"thousands separator", "1,250.00", "1250", true, models.MatchExact, ""},
		{"case and whitespace", "  Acme   Corp ", "acme corp", true, models.MatchExact, ""},
		{"one cent apart", "100.00", "100.01", false, "", "values differ by 0.01"},
		{"within tolerance", "100000.00", "100000.01", true, models.MatchFuzzy, ""},
		{"one side currency", "USD 100", "100", true, models.MatchFuzzy, ""},
		{"one side currency symbol", "$1,234.50", "1234.5", true, models.MatchFuzzy, ""},
		{"currency mismatch", "USD 100", "EUR 100", false, "", "currency units differ (USD vs EUR)"},
		{"currency missing and different", "USD 100", "90", false, "", "one side missing currency unit"},
		{"same date other layout", "2024-01-05", "Jan 5, 2024", true, models.MatchFuzzy, ""},
		{"different dates", "2024-01-05", "2024-01-06", false, "", "dates differ"},
		{"punctuation only", "ACME Corp.", "acme corp", true, models.MatchFuzzy, ""},
		{"different text", "Acme", "Globex", false, "", "values differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.compareValues(tt.a, tt.b)
			if got.equivalent != tt.equivalent {
				t.Fatalf("expected equivalent=%v, got %v (reason %q)", tt.equivalent, got.equivalent, got.reason)
			}
			if tt.equivalent && got.quality != tt.quality {
				t.Errorf("expected quality %s, got %s", tt.quality, got.quality)
			}
			if !tt.equivalent && !strings.Contains(got.reason, tt.reason) {
				t.Errorf("expected reason containing %q, got %q", tt.reason, got.reason)
			}
		})
	}
}

func TestCompareValues_ZeroToleranceDisablesFuzzyAmounts(t *testing.T) {
	p := DefaultPolicy()
	p.NumericTolerance = decimal.Zero

	if got := p.compareValues("100000.00", "100000.01"); got.equivalent {
		t.Errorf("expected no match with zero tolerance, got %+v", got)
	}
}
