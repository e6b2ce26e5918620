package models

// OrderKind identifies which side of a comparison an order record belongs to
type OrderKind string

const (
	OrderKindPurchase OrderKind = "PURCHASE"
	OrderKindSales    OrderKind = "SALES"
)

// Valid reports whether k is one of the known order kinds
func (k OrderKind) Valid() bool {
	return k == OrderKindPurchase || k == OrderKindSales
}

// Label returns a human-readable name for the document kind
func (k OrderKind) Label() string {
	switch k {
	case OrderKindPurchase:
		return "purchase order"
	case OrderKindSales:
		return "sales order"
	default:
		return "document"
	}
}

// ProductLine represents one line item on an order.
// Quantity and prices are kept as display strings because source documents
// format numbers inconsistently; discount and tax are numeric when supplied.
type ProductLine struct {
	Description string   `json:"description"`
	Quantity    *string  `json:"quantity,omitempty"`
	UnitPrice   *string  `json:"unitPrice,omitempty"`
	TotalPrice  *string  `json:"totalPrice,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Tax         *float64 `json:"tax,omitempty"`
}

// OrderRecord is the normalized extraction result for one document.
// It is treated as immutable once produced.
type OrderRecord struct {
	Kind         OrderKind         `json:"orderKind"`
	HeaderFields map[string]string `json:"headerFields"`
	LineItems    []ProductLine     `json:"lineItems"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// FloatPtr returns a pointer to f
func FloatPtr(f float64) *float64 {
	return &f
}

// Deref returns the value of an optional string, or "" when absent
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
