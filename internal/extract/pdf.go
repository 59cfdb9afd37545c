package extract

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_extractor.go -package=mocks intellidocs/internal/extract Extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction is returned when a document cannot be parsed or contains no
// extractable text (corrupt, encrypted, or empty PDFs).
var ErrExtraction = errors.New("could not extract text from document")

// Page is one page of extracted text, in document order.
type Page struct {
	Number int    // 1-based page number
	Text   string // Plain text content of the page
}

// Extractor extracts page-level text from a stored document file.
type Extractor interface {
	// ExtractPages returns the ordered page texts for the file at path.
	// Pages with no text content are omitted.
	ExtractPages(ctx context.Context, path string) ([]Page, error)
}

// PDFExtractor implements Extractor for PDF files.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages extracts plain text from every page of the PDF at path.
// A PDF that parses but yields no text at all is reported as an extraction
// error rather than an empty result, so callers never build an empty index
// from an unreadable document.
func (e *PDFExtractor) ExtractPages(ctx context.Context, path string) (pages []Page, err error) {
	// The pdf package panics on some malformed inputs; convert those into the
	// same extraction error as a regular parse failure.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer func() {
		_ = f.Close()
	}()

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrExtraction, num, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: document contains no extractable text", ErrExtraction)
	}

	return pages, nil
}
