package invoice

import (
	"strings"

	"github.com/btoninho/adse-navigator/internal"
)

// ExtractFile opens an invoice PDF, extracts its line items, and releases
// the document on every exit path.
func ExtractFile(path string) (internal.Provider, []internal.InvoiceItem, error) {
	doc, err := Open(path)
	if err != nil {
		return internal.ProviderUnknown, nil, err
	}
	defer doc.Close()

	provider, items := Extract(doc)
	return provider, items, nil
}

// Extract classifies the invoice provider and extracts its line items in
// source order (page order, then within-page order).
//
// Two deliberate passes over the document: classification reads the whole
// text first, since provider markers can appear on any page, and only then
// does extraction commit to a layout.
func Extract(doc Document) (internal.Provider, []internal.InvoiceItem) {
	provider := DetectProvider(fullText(doc))

	switch provider {
	case internal.ProviderLusiadas:
		return provider, extractItems(doc, lusiadasLayout)
	case internal.ProviderCUF:
		return provider, extractItems(doc, cufLayout)
	}

	// No marker matched. Retry with the CUF parser as a best-effort
	// fallback; a non-empty result is reported as CUF. An empty result is
	// a valid outcome, not an error.
	items := extractItems(doc, cufLayout)
	if len(items) > 0 {
		return internal.ProviderCUF, items
	}
	return internal.ProviderUnknown, []internal.InvoiceItem{}
}

func fullText(doc Document) string {
	var b strings.Builder
	for page := 1; page <= doc.NumPages(); page++ {
		text, err := doc.PageText(page)
		if err != nil || text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// extractItems runs one layout's patterns over every page. Lines matching
// nothing are expected noise (page headers, spacing artifacts) and are
// dropped silently; correctness is judged on whole-document output.
func extractItems(doc Document, l layout) []internal.InvoiceItem {
	items := []internal.InvoiceItem{}

	for page := 1; page <= doc.NumPages(); page++ {
		text, err := doc.PageText(page)
		if err != nil || text == "" {
			continue
		}

		lines := splitLines(text)
		i := 0
		for i < len(lines) {
			line := lines[i]

			if l.skip != nil && l.skip.MatchString(line) {
				i++
				continue
			}

			if item, ok := l.tryPatterns(line); ok {
				items = append(items, item)
				i++
				continue
			}

			// A date+code prefix without a full match means the
			// description wrapped onto following physical lines. Grow the
			// logical line and retry after each append; a stop marker
			// bounds the merge.
			if reRecordStart.MatchString(line) {
				full := line
				j := i + 1
				matched := false
				for j < len(lines) {
					next := lines[j]
					if l.stop(next) {
						break
					}
					full += " " + next
					j++

					if item, ok := l.tryPatterns(full); ok {
						items = append(items, item)
						i = j
						matched = true
						break
					}
				}
				// Unmatched: discard the original line and resume right
				// after it, so a stop-marker line is re-evaluated fresh.
				if !matched {
					i++
				}
				continue
			}

			i++
		}
	}

	return items
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
