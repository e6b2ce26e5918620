package repository

import (
	"context"

	"ordermatch-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ComparisonRepository handles database operations for comparison runs
type ComparisonRepository struct {
	db *pgxpool.Pool
}

// NewComparisonRepository creates a new comparison repository
func NewComparisonRepository(db *pgxpool.Pool) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

const comparisonColumns = `id, status, purchase_document_id, sales_document_id, fingerprint,
			report, error_message, created_at, completed_at`

// Create records a finished comparison run. The caller assigns the ID.
func (r *ComparisonRepository) Create(ctx context.Context, cmp *models.Comparison) error {
	query := `
		INSERT INTO comparisons (
			id, status, purchase_document_id, sales_document_id, fingerprint,
			report, error_message, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		cmp.ID,
		cmp.Status,
		cmp.PurchaseDocumentID,
		cmp.SalesDocumentID,
		cmp.Fingerprint,
		models.ReportPayload{Report: cmp.Report},
		cmp.ErrorMessage,
		cmp.CompletedAt,
	).Scan(&cmp.CreatedAt)
}

// GetByID retrieves a comparison run by ID
func (r *ComparisonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comparison, error) {
	query := `SELECT ` + comparisonColumns + `
		FROM comparisons
		WHERE id = $1`

	return scanComparison(r.db.QueryRow(ctx, query, id))
}

// GetLatestByFingerprint retrieves the newest completed run for a document pair
func (r *ComparisonRepository) GetLatestByFingerprint(ctx context.Context, fingerprint string) (*models.Comparison, error) {
	query := `SELECT ` + comparisonColumns + `
		FROM comparisons
		WHERE fingerprint = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	return scanComparison(r.db.QueryRow(ctx, query, fingerprint, models.ComparisonCompleted))
}

// ListRecent retrieves the most recent comparison runs
func (r *ComparisonRepository) ListRecent(ctx context.Context, limit int) ([]*models.Comparison, error) {
	query := `SELECT ` + comparisonColumns + `
		FROM comparisons
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Comparison
	for rows.Next() {
		cmp, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, cmp)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(row rowScanner) (*models.Comparison, error) {
	cmp := &models.Comparison{}
	var payload models.ReportPayload

	err := row.Scan(
		&cmp.ID,
		&cmp.Status,
		&cmp.PurchaseDocumentID,
		&cmp.SalesDocumentID,
		&cmp.Fingerprint,
		&payload,
		&cmp.ErrorMessage,
		&cmp.CreatedAt,
		&cmp.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	cmp.Report = payload.Report
	return cmp, nil
}
