// Package pdfextract pulls plain text out of PDF files.
package pdfextract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result carries the extracted text and how many pages the file has.
// Text may be empty for a valid PDF (scanned pages, images only).
type Result struct {
	Text  string
	Pages int
}

// Extract parses the PDF in r and returns its plain text. A file the
// parser cannot open at all is an error; individual pages that fail to
// decode are skipped so one bad page does not lose the whole document.
func Extract(r io.Reader) (Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read pdf failed: %w", err)
	}
	if len(b) == 0 {
		return Result{}, fmt.Errorf("pdf file is empty")
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf failed: %w", err)
	}

	pages := pdfReader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return Result{Text: sb.String(), Pages: pages}, nil
}
