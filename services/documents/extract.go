// File: services/documents/extract.go
package documents

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"concierge/models"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// ExtractionError reports an unreadable or corrupt source file. The caller
// skips that unit and proceeds with the rest of the upload.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract reads one uploaded file into a Document. PDF files go through the
// PDF text extractor; everything else is treated as plain text.
func Extract(name string, r io.Reader) (models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Document{}, &ExtractionError{Name: name, Err: err}
	}

	var content string
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		content, err = extractPDF(data)
	} else {
		content, err = extractPlainText(data)
	}
	if err != nil {
		return models.Document{}, &ExtractionError{Name: name, Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return models.Document{}, &ExtractionError{Name: name, Err: fmt.Errorf("no extractable text")}
	}

	return models.Document{
		ID:      uuid.New().String(),
		Name:    name,
		Content: content,
	}, nil
}

func extractPlainText(data []byte) (string, error) {
	if !isMostlyText(data) {
		return "", fmt.Errorf("binary content is not supported")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func isMostlyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 {
			nonPrintable++
		}
	}
	return nonPrintable*20 < len(sample)
}
