package models

// MatchQuality describes how two header values were found equivalent
type MatchQuality string

const (
	MatchExact MatchQuality = "EXACT"
	MatchFuzzy MatchQuality = "FUZZY"
)

// LineStatus classifies one reconciled product line
type LineStatus string

const (
	LineMatched              LineStatus = "MATCHED"
	LinePartialDetailsDiffer LineStatus = "PARTIAL_MATCH_DETAILS_DIFFER"
	LineMismatchQuantity     LineStatus = "MISMATCH_QUANTITY"
	LineMismatchUnitPrice    LineStatus = "MISMATCH_UNIT_PRICE"
	LineMismatchTotalPrice   LineStatus = "MISMATCH_TOTAL_PRICE"
	LineMismatchDescription  LineStatus = "MISMATCH_DESCRIPTION"
	LinePOOnly               LineStatus = "PO_ONLY"
	LineSOOnly               LineStatus = "SO_ONLY"
)

// AllLineStatuses lists every line status in report order
var AllLineStatuses = []LineStatus{
	LineMatched,
	LinePartialDetailsDiffer,
	LineMismatchQuantity,
	LineMismatchUnitPrice,
	LineMismatchTotalPrice,
	LineMismatchDescription,
	LinePOOnly,
	LineSOOnly,
}

// NotPresent marks a header value missing from one of the documents
const NotPresent = "Not present"

// MatchedItem is a header field found equal (or equivalent) on both sides
type MatchedItem struct {
	Field        string       `json:"field"`
	Value        string       `json:"value"`
	MatchQuality MatchQuality `json:"matchQuality"`
}

// Discrepancy is a header field that differs or is missing on one side
type Discrepancy struct {
	Field              string `json:"field"`
	PurchaseOrderValue string `json:"purchaseOrderValue"`
	SalesOrderValue    string `json:"salesOrderValue"`
	Reason             string `json:"reason"`
}

// ProductLineComparison is the reconciliation outcome for one PO line, one SO line, or a pair
type ProductLineComparison struct {
	POProductDescription string     `json:"poProductDescription"`
	POQuantity           string     `json:"poQuantity"`
	POUnitPrice          string     `json:"poUnitPrice"`
	POTotalPrice         string     `json:"poTotalPrice"`
	SOProductDescription string     `json:"soProductDescription"`
	SOQuantity           string     `json:"soQuantity"`
	SOUnitPrice          string     `json:"soUnitPrice"`
	SOTotalPrice         string     `json:"soTotalPrice"`
	Status               LineStatus `json:"status"`
	ComparisonNotes      string     `json:"comparisonNotes"`
}

// ComparisonReport is the final payload returned to renderers and exporters
type ComparisonReport struct {
	Summary                    string                  `json:"summary"`
	MatchedItems               []MatchedItem           `json:"matchedItems"`
	Discrepancies              []Discrepancy           `json:"discrepancies"`
	ProductLineItemComparisons []ProductLineComparison `json:"productLineItemComparisons"`
}

// StatusCounts tallies line comparisons by status
func (r *ComparisonReport) StatusCounts() map[LineStatus]int {
	counts := make(map[LineStatus]int)
	for _, line := range r.ProductLineItemComparisons {
		counts[line.Status]++
	}
	return counts
}
