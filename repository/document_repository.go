package repository

import (
	"context"

	"ordermatch-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for uploaded order documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create records an uploaded document. The caller assigns the ID.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.StoredDocument) error {
	query := `
		INSERT INTO documents (
			id, comparison_id, kind, filename, mime_type, size, sha256, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.ComparisonID,
		doc.Kind,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.SHA256,
		doc.StoragePath,
	).Scan(&doc.CreatedAt)
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoredDocument, error) {
	doc := &models.StoredDocument{}
	query := `
		SELECT id, comparison_id, kind, filename, mime_type, size, sha256, storage_path, created_at
		FROM documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.ComparisonID,
		&doc.Kind,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.SHA256,
		&doc.StoragePath,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ListByComparisonID retrieves the documents of one comparison, purchase order first
func (r *DocumentRepository) ListByComparisonID(ctx context.Context, comparisonID uuid.UUID) ([]*models.StoredDocument, error) {
	query := `
		SELECT id, comparison_id, kind, filename, mime_type, size, sha256, storage_path, created_at
		FROM documents
		WHERE comparison_id = $1
		ORDER BY kind ASC`

	rows, err := r.db.Query(ctx, query, comparisonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.StoredDocument
	for rows.Next() {
		doc := &models.StoredDocument{}
		err := rows.Scan(
			&doc.ID,
			&doc.ComparisonID,
			&doc.Kind,
			&doc.Filename,
			&doc.MimeType,
			&doc.Size,
			&doc.SHA256,
			&doc.StoragePath,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
