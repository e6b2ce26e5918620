package comparison

import (
	"strings"
	"testing"

	"ordermatch-backend/models"
)

func line(description, qty, unit, total string) models.ProductLine {
	l := models.ProductLine{Description: description}
	if qty != "" {
		l.Quantity = models.StringPtr(qty)
	}
	if unit != "" {
		l.UnitPrice = models.StringPtr(unit)
	}
	if total != "" {
		l.TotalPrice = models.StringPtr(total)
	}
	return l
}

func TestReconcileLines_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		po     []models.ProductLine
		so     []models.ProductLine
		status models.LineStatus
		notes  string
	}{
		{
			name:   "identical line",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "50.00")},
			so:     []models.ProductLine{line("Widget", "10", "5.00", "50.00")},
			status: models.LineMatched,
		},
		{
			name:   "quantity differs",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "")},
			so:     []models.ProductLine{line("Widget", "12", "5.00", "")},
			status: models.LineMismatchQuantity,
			notes:  "PO quantity 10 vs SO quantity 12",
		},
		{
			name:   "unit price differs",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "50.00")},
			so:     []models.ProductLine{line("WIDGET", "10", "5.50", "50.00")},
			status: models.LineMismatchUnitPrice,
			notes:  "PO unit price 5.00 vs SO unit price 5.50",
		},
		{
			name:   "total differs",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "50.00")},
			so:     []models.ProductLine{line("widget", "10", "5", "55")},
			status: models.LineMismatchTotalPrice,
			notes:  "PO total price 50.00 vs SO total price 55",
		},
		{
			name:   "unit price missing on one side",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "")},
			so:     []models.ProductLine{line("Widget", "10", "", "")},
			status: models.LineMismatchUnitPrice,
			notes:  "PO unit price 5.00 vs SO unit price not present",
		},
		{
			name:   "quantity and total differ",
			po:     []models.ProductLine{line("Widget", "10", "5.00", "50.00")},
			so:     []models.ProductLine{line("Widget", "12", "5.00", "60.00")},
			status: models.LinePartialDetailsDiffer,
			notes:  "PO quantity 10 vs SO quantity 12; PO total price 50.00 vs SO total price 60.00",
		},
		{
			name:   "numeric formatting only",
			po:     []models.ProductLine{line("Widget", "10", "5", "1,000")},
			so:     []models.ProductLine{line("Widget", "10.00", "5.00", "1000.00")},
			status: models.LineMatched,
		},
		{
			name:   "description diverges",
			po:     []models.ProductLine{line("Office Chair", "2", "100", "200")},
			so:     []models.ProductLine{line("Office Chair Black", "3", "100", "300")},
			status: models.LineMismatchDescription,
			notes:  `Descriptions differ: PO "Office Chair" vs SO "Office Chair Black" (80% similar)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ReconcileLines(tt.po, tt.so)
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d: %+v", len(rows), rows)
			}
			if rows[0].Status != tt.status {
				t.Errorf("expected status %s, got %s (%s)", tt.status, rows[0].Status, rows[0].ComparisonNotes)
			}
			if tt.notes != "" && !strings.HasPrefix(rows[0].ComparisonNotes, tt.notes) {
				t.Errorf("expected notes starting %q, got %q", tt.notes, rows[0].ComparisonNotes)
			}
			if tt.status != models.LineMatched && rows[0].ComparisonNotes == "" {
				t.Error("expected notes for a non-matched line")
			}
		})
	}
}

func TestReconcileLines_DescriptionMismatchKeepsNumericNotes(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Office Chair", "2", "100", "200")},
		[]models.ProductLine{line("Office Chair Black", "3", "100", "300")},
	)
	if !strings.Contains(rows[0].ComparisonNotes, "PO quantity 2 vs SO quantity 3") {
		t.Errorf("expected quantity note alongside description note, got %q", rows[0].ComparisonNotes)
	}
}

func TestReconcileLines_NearIdenticalDescriptionsMatch(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Stainless Steel Bolt M8", "100", "0.25", "25.00")},
		[]models.ProductLine{line("Stainless Steel Bolts M8", "100", "0.25", "25.00")},
	)
	if len(rows) != 1 {
		t.Fatalf("expected the lines to pair, got %d rows", len(rows))
	}
	if rows[0].Status != models.LineMatched {
		t.Errorf("expected MATCHED, got %s", rows[0].Status)
	}
	if rows[0].SOProductDescription != "Stainless Steel Bolts M8" {
		t.Errorf("expected SO description carried through, got %q", rows[0].SOProductDescription)
	}
}

func TestReconcileLines_DiscountOnlyIsPartial(t *testing.T) {
	po := line("Widget", "10", "5.00", "50.00")
	po.Discount = models.FloatPtr(5)
	so := line("Widget", "10", "5.00", "50.00")
	so.Discount = models.FloatPtr(0)

	rows := ReconcileLines([]models.ProductLine{po}, []models.ProductLine{so})
	if rows[0].Status != models.LinePartialDetailsDiffer {
		t.Errorf("expected PARTIAL_MATCH_DETAILS_DIFFER, got %s", rows[0].Status)
	}
	if rows[0].ComparisonNotes != "PO discount 5 vs SO discount 0" {
		t.Errorf("unexpected notes %q", rows[0].ComparisonNotes)
	}
}

func TestReconcileLines_POOnly(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Widget", "10", "5.00", "50.00"), line("Gadget", "1", "9.99", "9.99")},
		[]models.ProductLine{line("Widget", "10", "5.00", "50.00")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	gadget := rows[1]
	if gadget.Status != models.LinePOOnly {
		t.Fatalf("expected PO_ONLY, got %s", gadget.Status)
	}
	if gadget.POProductDescription != "Gadget" {
		t.Errorf("expected PO description Gadget, got %q", gadget.POProductDescription)
	}
	if gadget.SOProductDescription != "" || gadget.SOQuantity != "" || gadget.SOUnitPrice != "" || gadget.SOTotalPrice != "" {
		t.Errorf("expected SO fields blank, got %+v", gadget)
	}
	if gadget.ComparisonNotes == "" {
		t.Error("expected notes on PO_ONLY row")
	}
}

func TestReconcileLines_SOOnlyAfterPairs(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Widget", "1", "", "")},
		[]models.ProductLine{line("Printer Paper A4", "5", "", ""), line("Widget", "1", "", "")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != models.LineMatched {
		t.Errorf("expected first row MATCHED, got %s", rows[0].Status)
	}
	if rows[1].Status != models.LineSOOnly || rows[1].SOProductDescription != "Printer Paper A4" {
		t.Errorf("expected SO_ONLY paper row last, got %+v", rows[1])
	}
	if rows[1].POProductDescription != "" {
		t.Errorf("expected PO fields blank, got %q", rows[1].POProductDescription)
	}
}

func TestReconcileLines_DuplicatesPairInOrder(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Widget", "1", "", "")},
		[]models.ProductLine{line("Widget", "1", "", ""), line("Widget", "2", "", "")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != models.LineMatched || rows[0].SOQuantity != "1" {
		t.Errorf("expected PO line paired with first SO line, got %+v", rows[0])
	}
	if rows[1].Status != models.LineSOOnly || rows[1].SOQuantity != "2" {
		t.Errorf("expected second SO line unpaired, got %+v", rows[1])
	}
}

func TestReconcileLines_UnrelatedDescriptionsDoNotPair(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Gadget", "1", "", "")},
		[]models.ProductLine{line("Widget", "1", "", "")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != models.LinePOOnly || rows[1].Status != models.LineSOOnly {
		t.Errorf("expected PO_ONLY then SO_ONLY, got %s then %s", rows[0].Status, rows[1].Status)
	}
}

func TestReconcileLines_FuzzyPrefersBestSimilarity(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("Hex Nut M6", "10", "", "")},
		[]models.ProductLine{line("Desk Lamp LED", "1", "", ""), line("Hex Nuts M6", "10", "", "")},
	)

	if rows[0].SOProductDescription != "Hex Nuts M6" {
		t.Errorf("expected pairing with the closest description, got %q", rows[0].SOProductDescription)
	}
	if rows[0].Status != models.LineMatched {
		t.Errorf("expected MATCHED, got %s", rows[0].Status)
	}
}

func TestReconcileLines_EveryLineAppearsOnce(t *testing.T) {
	po := []models.ProductLine{
		line("Widget", "10", "5.00", "50.00"),
		line("Gadget", "2", "12.00", "24.00"),
		line("Office Chair", "1", "150", "150"),
		line("Widget", "3", "5.00", "15.00"),
		line("Hex Nut M6", "100", "0.10", "10.00"),
	}
	so := []models.ProductLine{
		line("widget", "10", "5.00", "50.00"),
		line("Office Chair Black", "1", "150", "150"),
		line("Hex Nuts M6", "100", "0.10", "10.00"),
		line("Printer Paper A4", "5", "4.00", "20.00"),
	}

	rows := ReconcileLines(po, so)

	poCount, soCount := 0, 0
	for _, r := range rows {
		if r.POProductDescription != "" {
			poCount++
		}
		if r.SOProductDescription != "" {
			soCount++
		}
	}
	if poCount != len(po) {
		t.Errorf("expected %d PO lines represented, got %d", len(po), poCount)
	}
	if soCount != len(so) {
		t.Errorf("expected %d SO lines represented, got %d", len(so), soCount)
	}

	for i, p := range po {
		if rows[i].POProductDescription != p.Description {
			t.Errorf("row %d: expected PO order preserved (%q), got %q", i, p.Description, rows[i].POProductDescription)
		}
	}
}

func TestReconcileLines_EmptyInputs(t *testing.T) {
	rows := ReconcileLines(nil, nil)
	if rows == nil {
		t.Fatal("expected an empty, non-nil slice")
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("widget", "widget"); got != 1 {
		t.Errorf("expected identical keys to score 1, got %f", got)
	}
	if got := similarity("", "widget"); got != 0 {
		t.Errorf("expected empty key to score 0, got %f", got)
	}
	if got := similarity("gadget", "widget"); got >= DefaultPolicy().LineMatchThreshold {
		t.Errorf("expected gadget/widget below the match threshold, got %f", got)
	}
	if got := similarity("stainless steel bolt m8", "stainless steel bolts m8"); got < DefaultPolicy().DescriptionSafeZone {
		t.Errorf("expected plural variant inside the safe zone, got %f", got)
	}
}

func TestReconcileLines_SymbolOnlyDescriptions(t *testing.T) {
	rows := ReconcileLines(
		[]models.ProductLine{line("---", "1", "", ""), line("***", "2", "", "")},
		[]models.ProductLine{line("===", "1", "", ""), line("***", "2", "", "")},
	)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Status != models.LinePOOnly || rows[0].POProductDescription != "---" {
		t.Errorf("expected '---' on the purchase order only, got %+v", rows[0])
	}
	if rows[1].Status != models.LineMatched || rows[1].SOProductDescription != "***" {
		t.Errorf("expected identical '***' lines matched, got %+v", rows[1])
	}
	if rows[2].Status != models.LineSOOnly || rows[2].SOProductDescription != "===" {
		t.Errorf("expected '===' on the sales order only, got %+v", rows[2])
	}
	for _, row := range rows {
		if row.Status != models.LineMatched && row.ComparisonNotes == "" {
			t.Errorf("expected notes for %s row", row.Status)
		}
	}
}
