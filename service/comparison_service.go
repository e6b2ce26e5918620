package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"ordermatch-backend/comparison"
	"ordermatch-backend/logger"
	"ordermatch-backend/metrics"
	"ordermatch-backend/models"
	"ordermatch-backend/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

var (
	ErrComparisonNotFound = errors.New("comparison not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrHistoryDisabled    = errors.New("comparison history is disabled")
	ErrNoExtractor        = errors.New("no document extractor configured")
)

// ComparisonStore persists comparison runs
type ComparisonStore interface {
	Create(ctx context.Context, cmp *models.Comparison) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comparison, error)
	GetLatestByFingerprint(ctx context.Context, fingerprint string) (*models.Comparison, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Comparison, error)
}

// DocumentStore persists metadata of uploaded documents
type DocumentStore interface {
	Create(ctx context.Context, doc *models.StoredDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoredDocument, error)
	ListByComparisonID(ctx context.Context, comparisonID uuid.UUID) ([]*models.StoredDocument, error)
}

const (
	ckComparison  = "comparison:%s"
	ckFingerprint = "fingerprint:%s"

	defaultCacheTTL = 30 * time.Minute

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ComparisonService extracts order documents, compares them and keeps the results
type ComparisonService struct {
	engine      *comparison.Engine
	extractor   comparison.Extractor
	storage     storage.Storage
	comparisons ComparisonStore
	documents   DocumentStore
	cache       *cache.Cache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
}

// ComparisonServiceOption is a functional option for ComparisonService
type ComparisonServiceOption func(*ComparisonService)

// WithEngine sets the comparison engine
func WithEngine(engine *comparison.Engine) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.engine = engine
	}
}

// WithExtractor sets the document extractor
func WithExtractor(extractor comparison.Extractor) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.extractor = extractor
	}
}

// WithStorage sets the document storage backend
func WithStorage(store storage.Storage) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.storage = store
	}
}

// WithComparisonRepository enables comparison history
func WithComparisonRepository(repo ComparisonStore) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.comparisons = repo
	}
}

// WithDocumentRepository enables document history
func WithDocumentRepository(repo DocumentStore) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.documents = repo
	}
}

// WithReportCacheTTL sets how long a finished report is reused for an identical document pair
func WithReportCacheTTL(ttl time.Duration) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.cacheTTL = ttl
	}
}

// WithMetrics sets the Prometheus metrics
func WithMetrics(m *metrics.Metrics) ComparisonServiceOption {
	return func(s *ComparisonService) {
		s.metrics = m
	}
}

// NewComparisonService creates a new comparison service
func NewComparisonService(opts ...ComparisonServiceOption) *ComparisonService {
	s := &ComparisonService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = comparison.NewEngine()
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultCacheTTL
	}
	s.cache = cache.New(s.cacheTTL, 2*s.cacheTTL)
	return s
}

// CompareDocumentsRequest carries the two uploaded documents
type CompareDocumentsRequest struct {
	PurchaseOrder models.Document
	SalesOrder    models.Document
}

// CompareResult is a finished comparison
type CompareResult struct {
	ID     uuid.UUID
	Report *models.ComparisonReport
	Cached bool
}

// CompareDocuments extracts both documents concurrently and compares them.
// An identical document pair seen within the cache TTL returns the earlier report.
func (s *ComparisonService) CompareDocuments(ctx context.Context, req CompareDocumentsRequest) (*CompareResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	if s.extractor == nil {
		return nil, ErrNoExtractor
	}

	fingerprint := documentFingerprint(req.PurchaseOrder.Data, req.SalesOrder.Data)
	if cached := s.lookupFingerprint(ctx, fingerprint); cached != nil {
		log.Info("Returning cached comparison", "comparison_id", cached.ID)
		s.observe(metrics.OutcomeCached, start)
		if s.metrics != nil {
			s.metrics.ReportCacheHits.Inc()
		}
		return &CompareResult{ID: cached.ID, Report: cached.Report, Cached: true}, nil
	}

	var po, so *models.OrderRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.extractor.Extract(gctx, req.PurchaseOrder, models.OrderKindPurchase)
		po = rec
		return s.extractionFailure(err, req.PurchaseOrder.Name, models.OrderKindPurchase)
	})
	g.Go(func() error {
		rec, err := s.extractor.Extract(gctx, req.SalesOrder, models.OrderKindSales)
		so = rec
		return s.extractionFailure(err, req.SalesOrder.Name, models.OrderKindSales)
	})
	if err := g.Wait(); err != nil {
		log.Warn("Document extraction failed", "error", err)
		s.recordFailure(ctx, fingerprint, err)
		s.observe(outcomeFor(err), start)
		return nil, err
	}

	report, err := s.engine.Compare(ctx, po, so)
	if err != nil {
		log.Warn("Comparison failed", "error", err)
		s.recordFailure(ctx, fingerprint, err)
		s.observe(outcomeFor(err), start)
		return nil, err
	}

	cmp := &models.Comparison{
		ID:          uuid.New(),
		Status:      models.ComparisonCompleted,
		Fingerprint: fingerprint,
		Report:      report,
	}
	s.storeDocuments(ctx, cmp, req)
	s.record(ctx, cmp)
	s.remember(cmp)

	s.observe(metrics.OutcomeCompleted, start)
	s.metrics.ObserveReport(report)
	log.Info("Comparison completed",
		"comparison_id", cmp.ID,
		"matched", len(report.MatchedItems),
		"discrepancies", len(report.Discrepancies),
		"lines", len(report.ProductLineItemComparisons),
		"duration", time.Since(start),
	)

	return &CompareResult{ID: cmp.ID, Report: report}, nil
}

// CompareRecords compares two already-extracted order records
func (s *ComparisonService) CompareRecords(ctx context.Context, po, so *models.OrderRecord) (*CompareResult, error) {
	start := time.Now()

	report, err := s.engine.Compare(ctx, po, so)
	if err != nil {
		s.observe(outcomeFor(err), start)
		return nil, err
	}

	fingerprint, err := recordFingerprint(po, so)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint records: %w", err)
	}

	cmp := &models.Comparison{
		ID:          uuid.New(),
		Status:      models.ComparisonCompleted,
		Fingerprint: fingerprint,
		Report:      report,
	}
	s.record(ctx, cmp)
	s.remember(cmp)

	s.observe(metrics.OutcomeCompleted, start)
	s.metrics.ObserveReport(report)

	return &CompareResult{ID: cmp.ID, Report: report}, nil
}

// GetComparison returns a comparison run from the cache or history
func (s *ComparisonService) GetComparison(ctx context.Context, id uuid.UUID) (*models.Comparison, error) {
	if cached, found := s.cache.Get(fmt.Sprintf(ckComparison, id)); found {
		return cached.(*models.Comparison), nil
	}

	if s.comparisons == nil {
		return nil, ErrComparisonNotFound
	}

	cmp, err := s.comparisons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComparisonNotFound
		}
		return nil, fmt.Errorf("failed to load comparison: %w", err)
	}
	if cmp.Status == models.ComparisonCompleted {
		s.cache.Set(fmt.Sprintf(ckComparison, cmp.ID), cmp, cache.DefaultExpiration)
	}
	return cmp, nil
}

// ListComparisons returns the most recent runs from history, newest first
func (s *ComparisonService) ListComparisons(ctx context.Context, limit int) ([]*models.Comparison, error) {
	if s.comparisons == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	runs, err := s.comparisons.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	if runs == nil {
		runs = []*models.Comparison{}
	}
	return runs, nil
}

// ListDocuments returns the metadata of the documents uploaded for a run
func (s *ComparisonService) ListDocuments(ctx context.Context, comparisonID uuid.UUID) ([]*models.StoredDocument, error) {
	if s.documents == nil {
		return nil, ErrHistoryDisabled
	}

	docs, err := s.documents.ListByComparisonID(ctx, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrComparisonNotFound
	}
	return docs, nil
}

// GetDocument returns an uploaded document's metadata and contents. The caller closes the reader.
func (s *ComparisonService) GetDocument(ctx context.Context, id uuid.UUID) (*models.StoredDocument, io.ReadCloser, error) {
	if s.documents == nil || s.storage == nil {
		return nil, nil, ErrHistoryDisabled
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}

	rc, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}
	return doc, rc, nil
}

// extractionFailure normalizes extractor errors so every failure names its document
func (s *ComparisonService) extractionFailure(err error, name string, kind models.OrderKind) error {
	if err == nil {
		return nil
	}
	// The sibling extraction was cancelled; only the first failure is counted
	if errors.Is(err, context.Canceled) {
		return err
	}
	s.metrics.ExtractionFailed(kind)

	var exErr *comparison.ExtractionError
	if errors.As(err, &exErr) {
		return err
	}
	return &comparison.ExtractionError{Document: name, Kind: kind, Detail: "the document could not be read", Err: err}
}

// lookupFingerprint finds a report for the same document pair produced within the cache TTL
func (s *ComparisonService) lookupFingerprint(ctx context.Context, fingerprint string) *models.Comparison {
	if id, found := s.cache.Get(fmt.Sprintf(ckFingerprint, fingerprint)); found {
		if cached, ok := s.cache.Get(fmt.Sprintf(ckComparison, id)); ok {
			return cached.(*models.Comparison)
		}
	}

	if s.comparisons == nil {
		return nil
	}

	// Fall back to history so a restart does not re-extract recent pairs
	cmp, err := s.comparisons.GetLatestByFingerprint(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.FromContext(ctx).Warn("Failed to look up comparison history", "error", err)
		}
		return nil
	}
	if cmp.Report == nil || time.Since(cmp.CreatedAt) > s.cacheTTL {
		return nil
	}
	s.remember(cmp)
	return cmp
}

// remember caches a completed run by ID and by fingerprint
func (s *ComparisonService) remember(cmp *models.Comparison) {
	s.cache.Set(fmt.Sprintf(ckComparison, cmp.ID), cmp, cache.DefaultExpiration)
	if cmp.Fingerprint != "" {
		s.cache.Set(fmt.Sprintf(ckFingerprint, cmp.Fingerprint), cmp.ID.String(), cache.DefaultExpiration)
	}
}

// storeDocuments uploads both documents and records their metadata. Failures are logged only.
func (s *ComparisonService) storeDocuments(ctx context.Context, cmp *models.Comparison, req CompareDocumentsRequest) {
	if s.storage == nil || s.documents == nil {
		return
	}

	for _, item := range []struct {
		doc    models.Document
		kind   models.OrderKind
		target **uuid.UUID
	}{
		{req.PurchaseOrder, models.OrderKindPurchase, &cmp.PurchaseDocumentID},
		{req.SalesOrder, models.OrderKindSales, &cmp.SalesDocumentID},
	} {
		stored, err := s.storeDocument(ctx, cmp.ID, item.doc, item.kind)
		if err != nil {
			logger.FromContext(ctx).Error("Failed to store document",
				"comparison_id", cmp.ID, "document", item.doc.Name, "error", err)
			continue
		}
		*item.target = &stored.ID
	}
}

func (s *ComparisonService) storeDocument(ctx context.Context, comparisonID uuid.UUID, doc models.Document, kind models.OrderKind) (*models.StoredDocument, error) {
	id := uuid.New()
	path, err := s.storage.Upload(ctx, id, doc.Name, bytes.NewReader(doc.Data))
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(doc.Data)
	stored := &models.StoredDocument{
		ID:           id,
		ComparisonID: comparisonID,
		Kind:         kind,
		Filename:     doc.Name,
		MimeType:     mimetype.Detect(doc.Data).String(),
		Size:         int64(len(doc.Data)),
		SHA256:       hex.EncodeToString(sum[:]),
		StoragePath:  path,
	}
	if err := s.documents.Create(ctx, stored); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.FromContext(ctx).Warn("Failed to clean up stored document", "path", path, "error", delErr)
		}
		return nil, err
	}
	return stored, nil
}

// record writes a run to history when enabled. Failures are logged only.
func (s *ComparisonService) record(ctx context.Context, cmp *models.Comparison) {
	if s.comparisons == nil {
		return
	}
	now := time.Now()
	cmp.CompletedAt = &now
	if err := s.comparisons.Create(ctx, cmp); err != nil {
		logger.FromContext(ctx).Error("Failed to record comparison", "comparison_id", cmp.ID, "error", err)
	}
}

func (s *ComparisonService) recordFailure(ctx context.Context, fingerprint string, cause error) {
	msg := comparison.Sanitize(cause.Error())
	s.record(ctx, &models.Comparison{
		ID:           uuid.New(),
		Status:       models.ComparisonFailed,
		Fingerprint:  fingerprint,
		ErrorMessage: &msg,
	})
}

func (s *ComparisonService) observe(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ComparisonsTotal.WithLabelValues(outcome).Inc()
	s.metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
}

func outcomeFor(err error) string {
	var exErr *comparison.ExtractionError
	var vErr *comparison.ValidationError
	switch {
	case errors.As(err, &exErr):
		return metrics.OutcomeExtractionFailed
	case errors.As(err, &vErr):
		return metrics.OutcomeValidationFailed
	default:
		return metrics.OutcomeError
	}
}

// documentFingerprint identifies an ordered document pair
func documentFingerprint(po, so []byte) string {
	poSum := sha256.Sum256(po)
	soSum := sha256.Sum256(so)
	h := sha256.New()
	h.Write(poSum[:])
	h.Write(soSum[:])
	return hex.EncodeToString(h.Sum(nil))
}

// recordFingerprint identifies an ordered pair of order records
func recordFingerprint(po, so *models.OrderRecord) (string, error) {
	poJSON, err := json.Marshal(po)
	if err != nil {
		return "", err
	}
	soJSON, err := json.Marshal(so)
	if err != nil {
		return "", err
	}
	return "records:" + documentFingerprint(poJSON, soJSON), nil
}
