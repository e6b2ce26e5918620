package comparison

import (
	"testing"

	"ordermatch-backend/models"
)

func purchase(fields map[string]string, lines ...models.ProductLine) *models.OrderRecord {
	return &models.OrderRecord{Kind: models.OrderKindPurchase, HeaderFields: fields, LineItems: lines}
}

func sales(fields map[string]string, lines ...models.ProductLine) *models.OrderRecord {
	return &models.OrderRecord{Kind: models.OrderKindSales, HeaderFields: fields, LineItems: lines}
}

func TestMatchFields_MissingOnSalesOrder(t *testing.T) {
	matched, discrepancies := MatchFields(
		purchase(map[string]string{"totalTax": "20"}),
		sales(map[string]string{}),
	)

	if len(matched) != 0 {
		t.Errorf("expected no matched items, got %v", matched)
	}
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}

	d := discrepancies[0]
	if d.Field != "totalTax" {
		t.Errorf("expected field totalTax, got %q", d.Field)
	}
	if d.PurchaseOrderValue != "20" {
		t.Errorf("expected PO value 20, got %q", d.PurchaseOrderValue)
	}
	if d.SalesOrderValue != models.NotPresent {
		t.Errorf("expected SO value %q, got %q", models.NotPresent, d.SalesOrderValue)
	}
	if d.Reason == "" {
		t.Error("expected a reason")
	}
}

func TestMatchFields_MissingOnPurchaseOrder(t *testing.T) {
	_, discrepancies := MatchFields(
		purchase(nil),
		sales(map[string]string{"Payment Terms": "Net 30"}),
	)

	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	if discrepancies[0].PurchaseOrderValue != models.NotPresent {
		t.Errorf("expected PO value %q, got %q", models.NotPresent, discrepancies[0].PurchaseOrderValue)
	}
	if discrepancies[0].Field != "Payment Terms" {
		t.Errorf("expected SO label when PO lacks the field, got %q", discrepancies[0].Field)
	}
}

func TestMatchFields_LabelTieBreakUsesPurchaseOrder(t *testing.T) {
	matched, discrepancies := MatchFields(
		purchase(map[string]string{"Total Tax": "20", "Vendor": "Acme"}),
		sales(map[string]string{"total_tax": "20.00", "Supplier": "ACME"}),
	)

	if len(discrepancies) != 0 {
		t.Fatalf("expected no discrepancies, got %v", discrepancies)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matched items, got %d", len(matched))
	}

	byField := make(map[string]models.MatchedItem)
	for _, m := range matched {
		byField[m.Field] = m
	}
	if m, ok := byField["Total Tax"]; !ok || m.MatchQuality != models.MatchExact {
		t.Errorf("expected exact match labelled 'Total Tax', got %v", matched)
	}
	if m, ok := byField["Vendor"]; !ok || m.Value != "Acme" {
		t.Errorf("expected match labelled 'Vendor' with PO value, got %v", matched)
	}
}

func TestMatchFields_NumericTolerance(t *testing.T) {
	matched, discrepancies := MatchFields(
		purchase(map[string]string{"grandTotal": "100.00", "subtotal": "100.00"}),
		sales(map[string]string{"grandTotal": "100", "subtotal": "100.01"}),
	)

	if len(matched) != 1 {
		t.Fatalf("expected one matched item, got %v", matched)
	}
	if matched[0].Field != "grandTotal" || matched[0].MatchQuality != models.MatchExact {
		t.Errorf("expected grandTotal EXACT, got %+v", matched[0])
	}
	if len(discrepancies) != 1 || discrepancies[0].Field != "subtotal" {
		t.Fatalf("expected subtotal discrepancy, got %v", discrepancies)
	}
}

func TestMatchFields_BlankValuesAreNotPresent(t *testing.T) {
	matched, discrepancies := MatchFields(
		purchase(map[string]string{"notes": "   ", "currency": ""}),
		sales(map[string]string{"currency": "USD"}),
	)

	if len(matched) != 0 {
		t.Errorf("expected no matches, got %v", matched)
	}
	if len(discrepancies) != 1 {
		t.Fatalf("expected only the currency discrepancy, got %v", discrepancies)
	}
	if discrepancies[0].PurchaseOrderValue != models.NotPresent {
		t.Errorf("expected blank PO currency to be reported as not present, got %q", discrepancies[0].PurchaseOrderValue)
	}
}

func TestMatchFields_Ordering(t *testing.T) {
	fields := map[string]string{"zeta": "1", "grandTotal": "5", "date": "2024-01-01", "alpha": "x"}
	matched, _ := MatchFields(purchase(fields), sales(fields))

	want := []string{"date", "grandTotal", "alpha", "zeta"}
	if len(matched) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(matched))
	}
	for i, field := range want {
		if matched[i].Field != field {
			t.Errorf("position %d: expected %s, got %s", i, field, matched[i].Field)
		}
	}
}

func TestMatchFields_EveryFieldReportedOnce(t *testing.T) {
	po := purchase(map[string]string{
		"Order Date":       "2024-03-01",
		"Reference Number": "PO-1001",
		"Buyer":            "Northwind",
		"Seller":           "Contoso",
		"Total Discount":   "5.00",
		"Total Tax":        "18.00",
		"Grand Total":      "USD 213.00",
		"Incoterms":        "FOB",
	})
	so := sales(map[string]string{
		"date":            "March 1, 2024",
		"referenceNumber": "PO-1001",
		"customer":        "Northwind Traders",
		"vendor":          "Contoso",
		"discount":        "5",
		"tax":             "20.00",
		"total":           "213",
		"Shipping Method": "Ground",
	})

	matched, discrepancies := MatchFields(po, so)

	seen := make(map[string]int)
	for _, m := range matched {
		seen[fieldKey(m.Field)]++
	}
	for _, d := range discrepancies {
		seen[fieldKey(d.Field)]++
	}

	for _, label := range []string{"Order Date", "Reference Number", "Buyer", "Seller", "Total Discount",
		"Total Tax", "Grand Total", "Incoterms", "Shipping Method"} {
		if seen[fieldKey(label)] != 1 {
			t.Errorf("expected %q reported exactly once, got %d", label, seen[fieldKey(label)])
		}
	}
	if len(seen) != 9 {
		t.Errorf("expected 9 distinct fields, got %d: %v", len(seen), seen)
	}
}

func TestMatchFields_SeveralLabelsForOneConcept(t *testing.T) {
	tests := []struct {
		name              string
		po, so            map[string]string
		wantMatched       []string
		wantDiscrepancies []string
	}{
		{
			name:        "tax and vat on both sides",
			po:          map[string]string{"Tax": "10", "VAT": "20"},
			so:          map[string]string{"Tax": "10", "VAT": "20"},
			wantMatched: []string{"Tax", "VAT"},
		},
		{
			name:              "extra order date on purchase order",
			po:                map[string]string{"Date": "2024-03-01", "Order Date": "2024-02-20"},
			so:                map[string]string{"Date": "2024-03-01"},
			wantMatched:       []string{"Date"},
			wantDiscrepancies: []string{"Order Date"},
		},
		{
			name:              "concept spelling keeps the concept",
			po:                map[string]string{"Amount Due": "100", "Grand Total": "110"},
			so:                map[string]string{"Grand Total": "110"},
			wantMatched:       []string{"Grand Total"},
			wantDiscrepancies: []string{"Amount Due"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, discrepancies := MatchFields(purchase(tt.po), sales(tt.so))

			if len(matched) != len(tt.wantMatched) {
				t.Fatalf("expected %d matched items, got %+v", len(tt.wantMatched), matched)
			}
			for i, field := range tt.wantMatched {
				if matched[i].Field != field || matched[i].Value != tt.po[field] {
					t.Errorf("expected match %s=%s, got %+v", field, tt.po[field], matched[i])
				}
			}
			if len(discrepancies) != len(tt.wantDiscrepancies) {
				t.Fatalf("expected %d discrepancies, got %+v", len(tt.wantDiscrepancies), discrepancies)
			}
			for i, field := range tt.wantDiscrepancies {
				d := discrepancies[i]
				if d.Field != field || d.SalesOrderValue != models.NotPresent || d.Reason != "missing on sales order" {
					t.Errorf("expected %s missing on sales order, got %+v", field, d)
				}
			}
		})
	}
}

func TestMatchFields_IdentifiersCompareAsText(t *testing.T) {
	tests := []struct {
		name       string
		po, so     map[string]string
		equivalent bool
		quality    models.MatchQuality
	}{
		{"leading zeros in reference", map[string]string{"Reference Number": "INV 00123"}, map[string]string{"referenceNumber": "INV 123"}, false, ""},
		{"leading zeros in po number", map[string]string{"PO Number": "00123"}, map[string]string{"poNumber": "123"}, false, ""},
		{"punctuation in reference", map[string]string{"Reference Number": "PO-1001"}, map[string]string{"ref no": "po 1001"}, true, models.MatchFuzzy},
		{"same reference", map[string]string{"Reference Number": "PO-1001"}, map[string]string{"reference": "po-1001"}, true, models.MatchExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, discrepancies := MatchFields(purchase(tt.po), sales(tt.so))
			if tt.equivalent {
				if len(matched) != 1 || matched[0].MatchQuality != tt.quality {
					t.Errorf("expected one %s match, got %+v / %+v", tt.quality, matched, discrepancies)
				}
				return
			}
			if len(discrepancies) != 1 || discrepancies[0].Reason != "values differ" {
				t.Errorf("expected one 'values differ' discrepancy, got %+v / %+v", matched, discrepancies)
			}
		})
	}
}

func TestMatchFields_SymbolLabelsAreKept(t *testing.T) {
	matched, discrepancies := MatchFields(
		purchase(map[string]string{"#": "A-7"}),
		sales(map[string]string{"#": "A-7"}),
	)

	if len(discrepancies) != 0 {
		t.Errorf("expected no discrepancies, got %v", discrepancies)
	}
	if len(matched) != 1 || matched[0].Field != "#" {
		t.Errorf("expected the '#' field matched, got %v", matched)
	}
}
