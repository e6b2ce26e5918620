package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComparisonStatus represents the outcome of a comparison run
type ComparisonStatus string

const (
	ComparisonCompleted ComparisonStatus = "completed"
	ComparisonFailed    ComparisonStatus = "failed"
)

// ReportPayload wraps a ComparisonReport for JSONB storage
type ReportPayload struct {
	Report *ComparisonReport
}

// Value implements driver.Valuer for JSONB
func (p ReportPayload) Value() (driver.Value, error) {
	if p.Report == nil {
		return nil, nil
	}
	return json.Marshal(p.Report)
}

// Scan implements sql.Scanner for JSONB
func (p *ReportPayload) Scan(value interface{}) error {
	if value == nil {
		p.Report = nil
		return nil
	}

	// pgx may hand JSONB back as bytes or string
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported report payload type %T", value)
	}

	if len(bytes) == 0 {
		p.Report = nil
		return nil
	}

	report := &ComparisonReport{}
	if err := json.Unmarshal(bytes, report); err != nil {
		return err
	}
	p.Report = report
	return nil
}

// Comparison represents one recorded comparison run
type Comparison struct {
	ID                 uuid.UUID         `json:"id"`
	Status             ComparisonStatus  `json:"status"`
	PurchaseDocumentID *uuid.UUID        `json:"purchase_document_id,omitempty"`
	SalesDocumentID    *uuid.UUID        `json:"sales_document_id,omitempty"`
	Fingerprint        string            `json:"fingerprint"`
	Report             *ComparisonReport `json:"report,omitempty"`
	ErrorMessage       *string           `json:"error_message,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
}
