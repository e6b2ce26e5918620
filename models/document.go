package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded source document (bytes plus naming hints)
type Document struct {
	Name     string `json:"name"`
	MIMEHint string `json:"mime_hint,omitempty"`
	Data     []byte `json:"-"`
}

// StoredDocument represents a document persisted for comparison history
type StoredDocument struct {
	ID           uuid.UUID `json:"id"`
	ComparisonID uuid.UUID `json:"comparison_id"`
	Kind         OrderKind `json:"kind"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	SHA256       string    `json:"sha256"`
	StoragePath  string    `json:"storage_path"`
	CreatedAt    time.Time `json:"created_at"`
}
