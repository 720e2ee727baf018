package invoice

import (
	"fmt"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Document yields extracted page text in document order. Implementations
// over synthetic pages back the extraction tests.
type Document interface {
	NumPages() int
	// PageText returns the text layer of the given 1-based page, or ""
	// when the page has none.
	PageText(page int) (string, error)
	Close() error
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

// Open opens an invoice PDF for text extraction.
func Open(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &pdfDocument{file: f, reader: r}, nil
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(page int) (string, error) {
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, row := range rows {
		for i, word := range row.Content {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word.S)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}
