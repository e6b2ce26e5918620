package comparison

import (
	"context"
	"errors"
	"strings"

	"ordermatch-backend/logger"
	"ordermatch-backend/models"

	"golang.org/x/sync/errgroup"
)

// FallbackSummary replaces the narrative whenever the summarizer cannot produce one
const FallbackSummary = "A narrative summary could not be generated for these documents."

// Extractor turns raw document bytes into an order record
type Extractor interface {
	Extract(ctx context.Context, doc models.Document, kind models.OrderKind) (*models.OrderRecord, error)
}

// Summarizer renders a narrative comparison of two order records
type Summarizer interface {
	Summarize(ctx context.Context, po, so *models.OrderRecord) (string, error)
}

// Engine assembles comparison reports from two order records
type Engine struct {
	policy     Policy
	summarizer Summarizer
	onFallback func(error)
}

// EngineOption is a functional option for Engine
type EngineOption func(*Engine)

// WithPolicy sets the matching tolerances
func WithPolicy(policy Policy) EngineOption {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithSummarizer sets the narrative summarizer
func WithSummarizer(summarizer Summarizer) EngineOption {
	return func(e *Engine) {
		e.summarizer = summarizer
	}
}

// WithFallbackHook registers a callback invoked whenever the fallback summary is used
func WithFallbackHook(hook func(error)) EngineOption {
	return func(e *Engine) {
		e.onFallback = hook
	}
}

// NewEngine creates a new comparison engine
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the tolerances the engine compares with
func (e *Engine) Policy() Policy {
	return e.policy
}

// Compare validates both records, runs the field matcher, line reconciler and summarizer
// concurrently and assembles the report. Summarizer failures never fail the comparison.
func (e *Engine) Compare(ctx context.Context, po, so *models.OrderRecord) (*models.ComparisonReport, error) {
	if err := ValidateRecord(po, models.OrderKindPurchase); err != nil {
		return nil, err
	}
	if err := ValidateRecord(so, models.OrderKindSales); err != nil {
		return nil, err
	}

	var (
		matched       []models.MatchedItem
		discrepancies []models.Discrepancy
		lines         []models.ProductLineComparison
		summary       string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matched, discrepancies = e.policy.MatchFields(po, so)
		return nil
	})

	g.Go(func() error {
		lines = e.policy.ReconcileLines(po.LineItems, so.LineItems)
		return nil
	})

	g.Go(func() error {
		summary = e.summarize(gctx, po, so)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.ComparisonReport{
		Summary:                    summary,
		MatchedItems:               matched,
		Discrepancies:              discrepancies,
		ProductLineItemComparisons: lines,
	}, nil
}

// summarize returns the narrative, or FallbackSummary when the summarizer is missing or fails
func (e *Engine) summarize(ctx context.Context, po, so *models.OrderRecord) string {
	var err error
	if e.summarizer == nil {
		err = ErrNoSummarizer
	} else {
		var text string
		text, err = e.summarizer.Summarize(ctx, po, so)
		if err == nil {
			if text = strings.TrimSpace(text); text != "" {
				return text
			}
			err = errors.New("summarizer returned an empty narrative")
		}
	}

	sumErr := &SummarizationError{Err: err}
	if !errors.Is(err, ErrNoSummarizer) {
		logger.FromContext(ctx).Warn("Using fallback summary", "error", sumErr)
	}
	if e.onFallback != nil {
		e.onFallback(sumErr)
	}
	return FallbackSummary
}
