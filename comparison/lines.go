package comparison

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"ordermatch-backend/models"

	"github.com/shopspring/decimal"
)

// linePair is one aligned PO/SO line
type linePair struct {
	po         int
	so         int
	similarity float64
	exact      bool
}

// ReconcileLines aligns and classifies product lines using the default policy
func ReconcileLines(poLines, soLines []models.ProductLine) []models.ProductLineComparison {
	return DefaultPolicy().ReconcileLines(poLines, soLines)
}

// ReconcileLines aligns PO and SO product lines by description and classifies each row.
// Every input line appears in exactly one output row.
func (p Policy) ReconcileLines(poLines, soLines []models.ProductLine) []models.ProductLineComparison {
	pairs := p.alignLines(poLines, soLines)

	pairByPO := make(map[int]linePair, len(pairs))
	pairedSO := make(map[int]bool, len(pairs))
	for _, pair := range pairs {
		pairByPO[pair.po] = pair
		pairedSO[pair.so] = true
	}

	out := make([]models.ProductLineComparison, 0, len(poLines)+len(soLines)-len(pairs))

	for i, po := range poLines {
		pair, ok := pairByPO[i]
		if !ok {
			out = append(out, poOnlyRow(po))
			continue
		}
		out = append(out, p.classifyPair(po, soLines[pair.so], pair))
	}

	for j, so := range soLines {
		if !pairedSO[j] {
			out = append(out, soOnlyRow(so))
		}
	}

	return out
}

// alignLines pairs exact description keys first, then the best remaining fuzzy candidates
func (p Policy) alignLines(poLines, soLines []models.ProductLine) []linePair {
	poKeys, poSymbols := alignmentKeys(poLines)
	soKeys, soSymbols := alignmentKeys(soLines)

	poUsed := make([]bool, len(poLines))
	soUsed := make([]bool, len(soLines))
	var pairs []linePair

	// 1. Exact key matches in order of first occurrence
	for i := range poLines {
		for j := range soLines {
			if soUsed[j] || poKeys[i] != soKeys[j] {
				continue
			}
			pairs = append(pairs, linePair{po: i, so: j, similarity: 1, exact: true})
			poUsed[i] = true
			soUsed[j] = true
			break
		}
	}

	// 2. Fuzzy candidates above the threshold, best similarity first
	var candidates []linePair
	for i := range poLines {
		if poUsed[i] {
			continue
		}
		for j := range soLines {
			if soUsed[j] || poSymbols[i] || soSymbols[j] {
				continue
			}
			score := similarity(poKeys[i], soKeys[j])
			if score >= p.LineMatchThreshold {
				candidates = append(candidates, linePair{po: i, so: j, similarity: score})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].similarity != candidates[b].similarity {
			return candidates[a].similarity > candidates[b].similarity
		}
		if candidates[a].po != candidates[b].po {
			return candidates[a].po < candidates[b].po
		}
		return candidates[a].so < candidates[b].so
	})
	for _, c := range candidates {
		if poUsed[c.po] || soUsed[c.so] {
			continue
		}
		pairs = append(pairs, c)
		poUsed[c.po] = true
		soUsed[c.so] = true
	}

	return pairs
}

// alignmentKeys returns the description key of each line. Descriptions without letters or digits
// keep their literal text as key and are flagged so they only ever pair with an identical description.
func alignmentKeys(lines []models.ProductLine) ([]string, []bool) {
	keys := make([]string, len(lines))
	symbols := make([]bool, len(lines))
	for i, line := range lines {
		keys[i] = descriptionKey(line.Description)
		if keys[i] == "" {
			keys[i] = normalizeText(line.Description)
			symbols[i] = true
		}
	}
	return keys, symbols
}

// classifyPair applies the precedence description > multi-field > single-field > matched
func (p Policy) classifyPair(po, so models.ProductLine, pair linePair) models.ProductLineComparison {
	row := pairedRow(po, so)

	var numericNotes []string
	var mismatched []models.LineStatus

	checks := []struct {
		label  string
		status models.LineStatus
		po, so *string
	}{
		{"quantity", models.LineMismatchQuantity, po.Quantity, so.Quantity},
		{"unit price", models.LineMismatchUnitPrice, po.UnitPrice, so.UnitPrice},
		{"total price", models.LineMismatchTotalPrice, po.TotalPrice, so.TotalPrice},
	}
	for _, c := range checks {
		if p.optionalAgree(c.po, c.so) {
			continue
		}
		mismatched = append(mismatched, c.status)
		numericNotes = append(numericNotes, fmt.Sprintf("PO %s %s vs SO %s %s",
			c.label, displayOptional(c.po), c.label, displayOptional(c.so)))
	}

	var detailNotes []string
	if !p.numberAgree(po.Discount, so.Discount) {
		detailNotes = append(detailNotes, fmt.Sprintf("PO discount %s vs SO discount %s",
			displayNumber(po.Discount), displayNumber(so.Discount)))
	}
	if !p.numberAgree(po.Tax, so.Tax) {
		detailNotes = append(detailNotes, fmt.Sprintf("PO tax %s vs SO tax %s",
			displayNumber(po.Tax), displayNumber(so.Tax)))
	}

	descriptionDiffers := !pair.exact && pair.similarity < p.DescriptionSafeZone
	notes := make([]string, 0, len(numericNotes)+len(detailNotes))
	notes = append(notes, numericNotes...)
	notes = append(notes, detailNotes...)

	switch {
	case descriptionDiffers:
		row.Status = models.LineMismatchDescription
		descNote := fmt.Sprintf("Descriptions differ: PO %q vs SO %q (%s similar)",
			po.Description, so.Description, percent(pair.similarity))
		row.ComparisonNotes = strings.Join(append([]string{descNote}, notes...), "; ")

	case len(mismatched) > 1 || len(detailNotes) > 0:
		row.Status = models.LinePartialDetailsDiffer
		row.ComparisonNotes = strings.Join(notes, "; ")

	case len(mismatched) == 1:
		row.Status = mismatched[0]
		row.ComparisonNotes = numericNotes[0]

	default:
		row.Status = models.LineMatched
		if !pair.exact {
			row.ComparisonNotes = fmt.Sprintf("Descriptions matched approximately (%s similar)", percent(pair.similarity))
		}
	}

	return row
}

// optionalAgree compares two optional display values; a value missing on one side disagrees
func (p Policy) optionalAgree(a, b *string) bool {
	aBlank := a == nil || isBlank(*a)
	bBlank := b == nil || isBlank(*b)
	if aBlank || bBlank {
		return aBlank == bBlank
	}
	return p.compareValues(*a, *b).equivalent
}

// numberAgree compares optional numeric line attributes with the numeric tolerance
func (p Policy) numberAgree(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	x := decimal.NewFromFloat(*a)
	y := decimal.NewFromFloat(*b)
	return x.Equal(y) || p.withinTolerance(x, y)
}

func pairedRow(po, so models.ProductLine) models.ProductLineComparison {
	return models.ProductLineComparison{
		POProductDescription: po.Description,
		POQuantity:           models.Deref(po.Quantity),
		POUnitPrice:          models.Deref(po.UnitPrice),
		POTotalPrice:         models.Deref(po.TotalPrice),
		SOProductDescription: so.Description,
		SOQuantity:           models.Deref(so.Quantity),
		SOUnitPrice:          models.Deref(so.UnitPrice),
		SOTotalPrice:         models.Deref(so.TotalPrice),
	}
}

func poOnlyRow(po models.ProductLine) models.ProductLineComparison {
	return models.ProductLineComparison{
		POProductDescription: po.Description,
		POQuantity:           models.Deref(po.Quantity),
		POUnitPrice:          models.Deref(po.UnitPrice),
		POTotalPrice:         models.Deref(po.TotalPrice),
		Status:               models.LinePOOnly,
		ComparisonNotes:      fmt.Sprintf("%q appears on the purchase order only", po.Description),
	}
}

func soOnlyRow(so models.ProductLine) models.ProductLineComparison {
	return models.ProductLineComparison{
		SOProductDescription: so.Description,
		SOQuantity:           models.Deref(so.Quantity),
		SOUnitPrice:          models.Deref(so.UnitPrice),
		SOTotalPrice:         models.Deref(so.TotalPrice),
		Status:               models.LineSOOnly,
		ComparisonNotes:      fmt.Sprintf("%q appears on the sales order only", so.Description),
	}
}

func displayOptional(s *string) string {
	if s == nil || isBlank(*s) {
		return "not present"
	}
	return strings.TrimSpace(*s)
}

func displayNumber(f *float64) string {
	if f == nil {
		return "not present"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func percent(score float64) string {
	return strconv.Itoa(int(math.Round(score*100))) + "%"
}
