package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	ctx := context.Background()
	id := uuid.New()

	path, err := s.Upload(ctx, id, "Purchase Order 1001.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(path, id.String()[:2]+"/") || !strings.HasSuffix(path, "Purchase_Order_1001.pdf") {
		t.Errorf("unexpected storage path %q", path)
	}

	rc, err := s.Download(ctx, path)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.4" {
		t.Errorf("expected stored bytes back, got %q", data)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Download(ctx, path); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Errorf("expected deleting a missing document to succeed, got %v", err)
	}
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	if _, err := s.Download(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected traversal to resolve inside the base path, got %v", err)
	}
}

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	tests := []struct {
		filename string
		want     string
	}{
		{"order.PDF", "0f/0f8fad5b-d9cb-469f-a165-70867728950e_order.pdf"},
		{"../../evil name.xlsx", "0f/0f8fad5b-d9cb-469f-a165-70867728950e_evil_name.xlsx"},
		{`C:\scans\po#7.png`, "0f/0f8fad5b-d9cb-469f-a165-70867728950e_po7.png"},
		{"", "0f/0f8fad5b-d9cb-469f-a165-70867728950e_document"},
	}

	for _, tt := range tests {
		if got := generateStoragePath(id, tt.filename); got != tt.want {
			t.Errorf("generateStoragePath(%q): expected %q, got %q", tt.filename, tt.want, got)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"po.pdf":    "application/pdf",
		"scan.JPG":  "image/jpeg",
		"so.xlsx":   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"lines.csv": "text/csv",
		"blob":      "application/octet-stream",
	}
	for filename, want := range tests {
		if got := ContentType(filename); got != want {
			t.Errorf("ContentType(%q): expected %q, got %q", filename, want, got)
		}
	}
}

func TestNewStorage_UnknownType(t *testing.T) {
	if _, err := NewStorage(StorageConfig{Type: "ftp"}); err == nil {
		t.Error("expected error for unknown storage type")
	}
	if _, err := NewStorage(StorageConfig{Type: StorageTypeS3}); err == nil {
		t.Error("expected error for S3 without bucket")
	}
}
