package comparison

import (
	"sort"
	"strings"
	"unicode"

	"ordermatch-backend/models"
)

// fieldConcepts lists the known header concepts in report order
var fieldConcepts = []string{
	"date",
	"referencenumber",
	"ponumber",
	"buyer",
	"seller",
	"currency",
	"paymentterms",
	"deliverydate",
	"subtotal",
	"totaldiscount",
	"totaltax",
	"grandtotal",
}

// fieldAliases folds common label spellings onto a known concept
var fieldAliases = map[string]string{
	"orderdate":           "date",
	"podate":              "date",
	"sodate":              "date",
	"issuedate":           "date",
	"documentdate":        "date",
	"reference":           "referencenumber",
	"refnumber":           "referencenumber",
	"refno":               "referencenumber",
	"purchaseordernumber": "ponumber",
	"pono":                "ponumber",
	"customerponumber":    "ponumber",
	"customer":            "buyer",
	"customername":        "buyer",
	"buyername":           "buyer",
	"purchaser":           "buyer",
	"billto":              "buyer",
	"vendor":              "seller",
	"vendorname":          "seller",
	"supplier":            "seller",
	"suppliername":        "seller",
	"sellername":          "seller",
	"terms":               "paymentterms",
	"shipdate":            "deliverydate",
	"shippingdate":        "deliverydate",
	"discount":            "totaldiscount",
	"discounttotal":       "totaldiscount",
	"tax":                 "totaltax",
	"taxtotal":            "totaltax",
	"taxamount":           "totaltax",
	"vat":                 "totaltax",
	"gst":                 "totaltax",
	"salestax":            "totaltax",
	"total":               "grandtotal",
	"totalamount":         "grandtotal",
	"ordertotal":          "grandtotal",
	"amountdue":           "grandtotal",
	"totaldue":            "grandtotal",
	"subtotalamount":      "subtotal",
}

var conceptRank = func() map[string]int {
	rank := make(map[string]int, len(fieldConcepts))
	for i, c := range fieldConcepts {
		rank[c] = i
	}
	return rank
}()

// labelKey reduces a header label to its letters and digits so that "Total Tax", "total_tax" and "totalTax" collide
func labelKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fieldKey canonicalises a header label and folds known aliases onto their concept
func fieldKey(label string) string {
	key := labelKey(label)
	if concept, ok := fieldAliases[key]; ok {
		return concept
	}
	return key
}

// identifierConcepts hold document numbers, where leading zeros and letters are significant
var identifierConcepts = map[string]bool{
	"referencenumber": true,
	"ponumber":        true,
}

type headerValue struct {
	label   string
	value   string
	concept string
}

type headerLabel struct {
	label string
	raw   string
}

// collectHeader groups one side's header fields by canonical key.
// Blank values are treated as absent. When several labels on one side fold to the same concept,
// the label spelled as the concept (else the first in label order) keeps it and the others are
// keyed by their own spelling, so no field is lost.
func collectHeader(fields map[string]string) map[string]headerValue {
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var concepts []string
	groups := make(map[string][]headerLabel)
	for _, label := range labels {
		if isBlank(label) || isBlank(fields[label]) {
			continue
		}
		raw := labelKey(label)
		if raw == "" {
			// Labels without letters or digits keep their literal spelling
			raw = normalizeText(label)
		}
		concept := raw
		if c, ok := fieldAliases[raw]; ok {
			concept = c
		}
		if _, ok := groups[concept]; !ok {
			concepts = append(concepts, concept)
		}
		groups[concept] = append(groups[concept], headerLabel{label: label, raw: raw})
	}

	out := make(map[string]headerValue, len(labels))
	put := func(key, concept string, l headerLabel) {
		if _, seen := out[key]; seen {
			return
		}
		out[key] = headerValue{
			label:   strings.TrimSpace(l.label),
			value:   strings.TrimSpace(fields[l.label]),
			concept: concept,
		}
	}

	for _, concept := range concepts {
		group := groups[concept]
		primary := 0
		for i, l := range group {
			if l.raw == concept {
				primary = i
				break
			}
		}
		put(concept, concept, group[primary])
		for i, l := range group {
			if i != primary {
				put(l.raw, concept, l)
			}
		}
	}
	return out
}

// compareField compares two header values; document numbers are compared as text only
func (p Policy) compareField(po, so headerValue) valueVerdict {
	if identifierConcepts[po.concept] || identifierConcepts[so.concept] {
		return compareIdentifiers(po.value, so.value)
	}
	return p.compareValues(po.value, so.value)
}

// sortFieldKeys orders known concepts first, then everything else alphabetically
func sortFieldKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := conceptRank[keys[i]]
		rj, jKnown := conceptRank[keys[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
}

// MatchFields compares the header fields of a purchase order and a sales order using the default policy
func MatchFields(po, so *models.OrderRecord) ([]models.MatchedItem, []models.Discrepancy) {
	return DefaultPolicy().MatchFields(po, so)
}

// MatchFields compares the header fields of a purchase order and a sales order.
// Every field present on either side lands in exactly one of the two returned slices.
func (p Policy) MatchFields(po, so *models.OrderRecord) ([]models.MatchedItem, []models.Discrepancy) {
	poFields := collectHeader(po.HeaderFields)
	soFields := collectHeader(so.HeaderFields)

	keys := make([]string, 0, len(poFields)+len(soFields))
	for key := range poFields {
		keys = append(keys, key)
	}
	for key := range soFields {
		if _, ok := poFields[key]; !ok {
			keys = append(keys, key)
		}
	}
	sortFieldKeys(keys)

	matched := make([]models.MatchedItem, 0, len(keys))
	discrepancies := make([]models.Discrepancy, 0)

	for _, key := range keys {
		poValue, onPO := poFields[key]
		soValue, onSO := soFields[key]

		switch {
		case onPO && onSO:
			verdict := p.compareField(poValue, soValue)
			if verdict.equivalent {
				matched = append(matched, models.MatchedItem{
					Field:        poValue.label,
					Value:        poValue.value,
					MatchQuality: verdict.quality,
				})
				continue
			}
			discrepancies = append(discrepancies, models.Discrepancy{
				Field:              poValue.label,
				PurchaseOrderValue: poValue.value,
				SalesOrderValue:    soValue.value,
				Reason:             verdict.reason,
			})

		case onPO:
			discrepancies = append(discrepancies, models.Discrepancy{
				Field:              poValue.label,
				PurchaseOrderValue: poValue.value,
				SalesOrderValue:    models.NotPresent,
				Reason:             "missing on sales order",
			})

		default:
			discrepancies = append(discrepancies, models.Discrepancy{
				Field:              soValue.label,
				PurchaseOrderValue: models.NotPresent,
				SalesOrderValue:    soValue.value,
				Reason:             "missing on purchase order",
			})
		}
	}

	return matched, discrepancies
}
