package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"ordermatch-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// orderRecordSchema constrains the model to the order record contract.
// Header fields are a list of name/value pairs because the schema has no free-form maps.
var orderRecordSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"orderKind": {
			Type:        genai.TypeString,
			Enum:        []string{string(models.OrderKindPurchase), string(models.OrderKindSales)},
			Description: "PURCHASE for a purchase order, SALES for a sales order or order confirmation",
		},
		"headerFields": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString, Description: "field label, e.g. date, referenceNumber, buyer, seller, grandTotal"},
					"value": {Type: genai.TypeString, Description: "the value exactly as printed, including currency symbols"},
				},
				Required: []string{"name", "value"},
			},
		},
		"lineItems": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {Type: genai.TypeString},
					"quantity":    {Type: genai.TypeString, Nullable: true},
					"unitPrice":   {Type: genai.TypeString, Nullable: true},
					"totalPrice":  {Type: genai.TypeString, Nullable: true},
					"discount":    {Type: genai.TypeNumber, Nullable: true},
					"tax":         {Type: genai.TypeNumber, Nullable: true},
				},
				Required: []string{"description"},
			},
		},
	},
	Required: []string{"orderKind", "headerFields", "lineItems"},
}

type wireField struct {
	Name  string      `json:"name"`
	Value looseString `json:"value"`
}

type wireLine struct {
	Description string       `json:"description"`
	Quantity    *looseString `json:"quantity"`
	UnitPrice   *looseString `json:"unitPrice"`
	TotalPrice  *looseString `json:"totalPrice"`
	Discount    *float64     `json:"discount"`
	Tax         *float64     `json:"tax"`
}

type wireRecord struct {
	OrderKind    string      `json:"orderKind"`
	HeaderFields []wireField `json:"headerFields"`
	LineItems    []wireLine  `json:"lineItems"`
}

// looseString accepts a JSON string or number; models occasionally emit bare numbers
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = looseString(data)
	return nil
}

func (s *looseString) ptr() *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(string(*s))
	if v == "" {
		return nil
	}
	return &v
}

// decodeRecord parses model output into an order record.
// An empty kind falls back to the requested one; a conflicting kind is kept for validation to reject.
func decodeRecord(text string, requested models.OrderKind) (*models.OrderRecord, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var wire wireRecord
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("response is not a valid order record: %w", err)
	}

	rec := &models.OrderRecord{
		Kind:         models.OrderKind(strings.ToUpper(strings.TrimSpace(wire.OrderKind))),
		HeaderFields: make(map[string]string, len(wire.HeaderFields)),
		LineItems:    make([]models.ProductLine, 0, len(wire.LineItems)),
	}
	if rec.Kind == "" {
		rec.Kind = requested
	}
	if !rec.Kind.Valid() {
		return nil, fmt.Errorf("response names unknown order kind %q", wire.OrderKind)
	}

	for _, f := range wire.HeaderFields {
		name := strings.TrimSpace(f.Name)
		value := strings.TrimSpace(string(f.Value))
		if !hasWordRune(name) || value == "" {
			continue
		}
		if _, dup := rec.HeaderFields[name]; dup {
			continue
		}
		rec.HeaderFields[name] = value
	}

	for _, l := range wire.LineItems {
		rec.LineItems = append(rec.LineItems, models.ProductLine{
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity.ptr(),
			UnitPrice:   l.UnitPrice.ptr(),
			TotalPrice:  l.TotalPrice.ptr(),
			Discount:    l.Discount,
			Tax:         l.Tax,
		})
	}

	return rec, nil
}

// hasWordRune reports whether s contains a letter or digit; labels like "#" carry no field name
func hasWordRune(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
