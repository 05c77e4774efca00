// Package extract turns uploaded file bytes into plain text.
package extract

import (
	"unicode/utf8"

	"github.com/docyard-ai/docyard/internal/domain"
)

const (
	ExtPDF = ".pdf"
	ExtTXT = ".txt"
)

// Extractor converts raw file bytes plus a declared extension into
// plain text. Extensions outside the allow-set yield an empty string
// and no error; the caller decides how to treat that.
type Extractor struct {
	pdf *pdfExtractor
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{pdf: newPDFExtractor()}
}

// Text extracts the textual content of data according to ext.
// TXT content must be valid UTF-8. PDF content is the page-ordered
// concatenation of each page's extracted text. No OCR, no layout
// reconstruction, no metadata.
func (e *Extractor) Text(data []byte, ext string) (string, error) {
	switch ext {
	case ExtPDF:
		return e.pdf.extract(data)
	case ExtTXT:
		if !utf8.Valid(data) {
			return "", domain.ErrInvalidEncoding
		}
		return string(data), nil
	default:
		return "", nil
	}
}
