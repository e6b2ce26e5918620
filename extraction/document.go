package extraction

import (
	"fmt"
	"path/filepath"
	"strings"

	"ordermatch-backend/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
)

// DocumentType is the routing class of an uploaded document
type DocumentType string

const (
	DocumentPDF         DocumentType = "pdf"
	DocumentImage       DocumentType = "image"
	DocumentSpreadsheet DocumentType = "spreadsheet"
	DocumentCSV         DocumentType = "csv"
	DocumentText        DocumentType = "text"
	DocumentUnsupported DocumentType = "unsupported"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv"
)

// images the model accepts as-is when they cannot be decoded locally
var passthroughImages = map[string]bool{
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// DetectType sniffs the document bytes, falling back to the caller's hint and the file extension
func DetectType(doc models.Document) (DocumentType, string) {
	mt := mimetype.Detect(doc.Data)

	switch {
	case mt.Is("application/pdf"):
		return DocumentPDF, "application/pdf"
	case strings.HasPrefix(mt.String(), "image/"):
		return DocumentImage, baseMIME(mt.String())
	case mt.Is(mimeXLSX):
		return DocumentSpreadsheet, mimeXLSX
	case mt.Is(mimeCSV):
		return DocumentCSV, mimeCSV
	}

	// Plain text and zip containers are ambiguous; trust the name or hint
	ext := strings.ToLower(filepath.Ext(doc.Name))
	hint := baseMIME(doc.MIMEHint)
	switch {
	case ext == ".csv" || hint == mimeCSV:
		return DocumentCSV, mimeCSV
	case ext == ".xlsx" || hint == mimeXLSX:
		return DocumentSpreadsheet, mimeXLSX
	case mt.Is("text/plain"):
		return DocumentText, "text/plain"
	}

	return DocumentUnsupported, mt.String()
}

func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// documentParts converts a document into the parts sent to the model
func documentParts(doc models.Document) ([]genai.Part, error) {
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	docType, mime := DetectType(doc)
	switch docType {
	case DocumentPDF:
		return []genai.Part{genai.Blob{MIMEType: mime, Data: doc.Data}}, nil

	case DocumentImage:
		prepared, err := prepareImage(doc.Data)
		if err != nil {
			if passthroughImages[mime] {
				return []genai.Part{genai.Blob{MIMEType: mime, Data: doc.Data}}, nil
			}
			return nil, err
		}
		return []genai.Part{genai.ImageData("jpeg", prepared)}, nil

	case DocumentSpreadsheet:
		table, err := renderWorkbook(doc.Data)
		if err != nil {
			return nil, err
		}
		return []genai.Part{genai.Text("Spreadsheet contents:\n" + table)}, nil

	case DocumentCSV:
		table, err := renderCSV(doc.Data)
		if err != nil {
			return nil, err
		}
		return []genai.Part{genai.Text("Spreadsheet contents:\n" + table)}, nil

	case DocumentText:
		return []genai.Part{genai.Text("Document text:\n" + string(doc.Data))}, nil
	}

	return nil, fmt.Errorf("unsupported document type %s", mime)
}
