package comparison

import (
	"fmt"

	"ordermatch-backend/models"
)

// ValidateRecord checks that rec is a well-formed order record of the expected kind
func ValidateRecord(rec *models.OrderRecord, want models.OrderKind) error {
	if rec == nil {
		return &ValidationError{Kind: want, Message: "no order record was produced"}
	}
	if !rec.Kind.Valid() {
		return &ValidationError{Kind: want, Field: "orderKind", Message: fmt.Sprintf("unknown order kind %q", rec.Kind)}
	}
	if rec.Kind != want {
		return &ValidationError{Kind: want, Field: "orderKind", Message: fmt.Sprintf("expected %s, got %s", want, rec.Kind)}
	}

	for label, value := range rec.HeaderFields {
		if isBlank(label) {
			return &ValidationError{Kind: want, Field: "headerFields", Message: fmt.Sprintf("a header field with value %q has no label", Sanitize(value))}
		}
	}

	for i, line := range rec.LineItems {
		if isBlank(line.Description) {
			return &ValidationError{
				Kind:    want,
				Field:   fmt.Sprintf("lineItems[%d].description", i),
				Message: fmt.Sprintf("line item %d has no description", i+1),
			}
		}
	}

	return nil
}
