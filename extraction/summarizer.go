package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"ordermatch-backend/models"

	"github.com/google/generative-ai-go/genai"
)

const summaryInstruction = `You compare a purchase order with the matching sales order for an accounts team.
Write two to four plain sentences. Say whether the documents agree, then name the most important differences with their values.
No markdown, no bullet points, no speculation about causes.`

// GeminiSummarizer writes the narrative part of a comparison report
type GeminiSummarizer struct {
	gen generator
}

// NewGeminiSummarizer creates a summarizer backed by the named Gemini model
func NewGeminiSummarizer(client *genai.Client, modelName string) *GeminiSummarizer {
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(summaryInstruction)}}

	return &GeminiSummarizer{gen: model}
}

// Summarize describes how the two records differ
func (s *GeminiSummarizer) Summarize(ctx context.Context, po, so *models.OrderRecord) (string, error) {
	poJSON, err := json.Marshal(po)
	if err != nil {
		return "", fmt.Errorf("failed to encode purchase order: %w", err)
	}
	soJSON, err := json.Marshal(so)
	if err != nil {
		return "", fmt.Errorf("failed to encode sales order: %w", err)
	}

	prompt := fmt.Sprintf("PURCHASE ORDER:\n%s\n\nSALES ORDER:\n%s", poJSON, soJSON)

	resp, err := s.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return responseText(resp)
}
