package comparison

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"ordermatch-backend/models"
)

// ErrNoSummarizer is reported when the engine has no summarizer configured
var ErrNoSummarizer = errors.New("no summarizer configured")

// maxExcerptRunes bounds any error text echoed back to a caller
const maxExcerptRunes = 200

// ExtractionError reports that a document could not be turned into an order record.
// Detail is a short caller-safe description; Err keeps the raw cause for logs.
type ExtractionError struct {
	Document string
	Kind     models.OrderKind
	Detail   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("failed to extract %s %q", e.Kind.Label(), e.Document)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the single sentence shown to API callers
func (e *ExtractionError) UserMessage() string {
	msg := fmt.Sprintf("Could not read the %s %q", e.Kind.Label(), Sanitize(e.Document))
	if e.Detail != "" {
		msg += ": " + Sanitize(e.Detail)
	}
	return msg + "."
}

// ValidationError reports a structurally malformed order record
type ValidationError struct {
	Kind    models.OrderKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind.Label(), e.Message)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Kind.Label(), e.Field, e.Message)
}

// UserMessage returns the single sentence shown to API callers
func (e *ValidationError) UserMessage() string {
	return "The " + e.Kind.Label() + " is incomplete: " + Sanitize(e.Message) + "."
}

// SummarizationError wraps a narrative generation failure. It never aborts a comparison.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return "summarization failed: " + e.Err.Error()
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Sanitize strips control characters from msg and truncates it to a short excerpt
func Sanitize(msg string) string {
	msg = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, msg)
	msg = strings.Join(strings.Fields(msg), " ")

	runes := []rune(msg)
	if len(runes) > maxExcerptRunes {
		return string(runes[:maxExcerptRunes]) + "..."
	}
	return msg
}
