package comparison

import (
	"errors"
	"testing"

	"ordermatch-backend/models"
)

func TestValidateRecord_HeaderLabels(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantErr bool
	}{
		{"symbol label", map[string]string{"#": "A-7"}, false},
		{"ordinary label", map[string]string{"Total Tax": "20"}, false},
		{"empty label", map[string]string{"": "20"}, true},
		{"whitespace label", map[string]string{"   ": "20"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(purchase(tt.fields), models.OrderKindPurchase)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != "headerFields" {
				t.Errorf("expected headerFields validation error, got %v", err)
			}
		})
	}
}
