// Package pdf extracts page-level text from PDF files.
package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned when the file cannot be parsed as a PDF.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoText is returned when the PDF parses but yields no extractable text.
	ErrNoText = errors.New("no extractable text")
)

// Loader extracts ordered page texts from PDF files.
type Loader struct{}

// NewLoader creates a new PDF loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load extracts the text of every page of the PDF at path, in source page
// order. Page order underlies chunk sequence numbering, so it must be stable.
// Returns ErrUnsupportedFormat if the file is not a parseable PDF and
// ErrNoText if parsing succeeds but no page contains extractable text.
func (l *Loader) Load(path string) (pages []string, err error) {
	// The underlying parser panics on some malformed inputs; treat those the
	// same as a parse error.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrUnsupportedFormat, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer func() {
		_ = f.Close()
	}()

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	hasText := false

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			pages = append(pages, "")
			continue
		}

		pages = append(pages, text)
		if strings.TrimSpace(text) != "" {
			hasText = true
		}
	}

	if !hasText {
		return nil, ErrNoText
	}

	return pages, nil
}
