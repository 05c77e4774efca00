package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docyard-ai/docyard/internal/domain"
)

// pdfExtractor extracts text from PDF bytes using pdfcpu. pdfcpu works
// on files, so each extraction round-trips through a scratch directory
// that is removed before returning.
type pdfExtractor struct {
	tempDir string
}

func newPDFExtractor() *pdfExtractor {
	tempDir := filepath.Join(os.TempDir(), "docyard-pdf")
	os.MkdirAll(tempDir, 0o755)
	return &pdfExtractor{tempDir: tempDir}
}

// extract returns the text of every page, in page order, with no
// separators beyond what each page yields natively.
func (e *pdfExtractor) extract(data []byte) (string, error) {
	scratch := filepath.Join(e.tempDir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return "", fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	tempFile := filepath.Join(scratch, "input.pdf")
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", domain.ErrInvalidEncoding.WithCause(err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(scratch, "pages")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	// pdfcpu writes one content file per page, named by page number.
	pageTexts := make(map[int]string, pageCount)
	entries, _ := os.ReadDir(outDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(entry.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text.WriteString(pageTexts[pageNum])
	}

	return text.String(), nil
}
