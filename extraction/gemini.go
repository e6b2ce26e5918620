package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ordermatch-backend/comparison"
	"ordermatch-backend/logger"
	"ordermatch-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.5-flash"

var (
	ErrNoCandidates  = errors.New("model returned no candidates")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrBlocked       = errors.New("model blocked the request")
)

// generator is the slice of *genai.GenerativeModel the extractor and summarizer depend on
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

const extractionInstruction = `You read purchase orders and sales orders and return their contents as JSON.
Copy every value exactly as printed, including currency symbols and separators. Do not compute, round or infer values.
Report every header field you can see (dates, reference numbers, buyer, seller, subtotal, discounts, tax, grand total, currency, payment terms, delivery date).
List every product line in document order. Leave quantity, unitPrice and totalPrice null when a line does not show them.`

// GeminiExtractor turns order documents into order records with a Gemini model
type GeminiExtractor struct {
	gen generator
}

// NewGeminiExtractor creates an extractor backed by the named Gemini model
func NewGeminiExtractor(client *genai.Client, modelName string) *GeminiExtractor {
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = orderRecordSchema
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(extractionInstruction)}}

	return newGeminiExtractor(model)
}

func newGeminiExtractor(gen generator) *GeminiExtractor {
	return &GeminiExtractor{gen: gen}
}

// Extract reads one document. Every failure is reported as *comparison.ExtractionError.
func (x *GeminiExtractor) Extract(ctx context.Context, doc models.Document, kind models.OrderKind) (*models.OrderRecord, error) {
	fail := func(detail string, err error) error {
		return &comparison.ExtractionError{Document: doc.Name, Kind: kind, Detail: detail, Err: err}
	}

	parts, err := documentParts(doc)
	if err != nil {
		return nil, fail(err.Error(), nil)
	}

	prompt := fmt.Sprintf("This document was uploaded as the %s. Extract it.", kind.Label())
	parts = append([]genai.Part{genai.Text(prompt)}, parts...)

	resp, err := x.gen.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fail("the extraction service did not respond", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fail(err.Error(), nil)
	}

	rec, err := decodeRecord(text, kind)
	if err != nil {
		logger.FromContext(ctx).Debug("Unparseable extraction output", "document", doc.Name, "excerpt", comparison.Sanitize(text))
		return nil, fail("the extracted data did not match the expected structure", err)
	}

	logger.FromContext(ctx).Info("Extracted order record",
		"document", doc.Name,
		"kind", rec.Kind,
		"header_fields", len(rec.HeaderFields),
		"line_items", len(rec.LineItems),
	)
	return rec, nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", ErrBlocked
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		if candidate.FinishReason == genai.FinishReasonSafety {
			return "", ErrBlocked
		}
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
