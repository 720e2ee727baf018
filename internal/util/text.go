package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reNonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
	reAllDigit = regexp.MustCompile(`^\d+$`)

	slugReplacer = strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e", "í", "i", "ó", "o",
		"ô", "o", "õ", "o", "ú", "u", "ç", "c",
	)
)

// NormalizeHeader collapses whitespace and upper-cases header text so
// column titles match regardless of stray spacing in the source cells.
func NormalizeHeader(input string) string {
	s := reSpaces.ReplaceAllString(input, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// Slugify converts a category name to a URL-safe slug, folding the
// Portuguese accented characters first.
func Slugify(text string) string {
	slug := slugReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
	slug = reNonSlug.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// StripLeadingZeros normalizes a digit-only procedure code for lookup,
// so invoice code "00123" matches table code "123". Non-digit codes pass
// through unchanged.
func StripLeadingZeros(code string) string {
	if !reAllDigit.MatchString(code) {
		return code
	}
	stripped := strings.TrimLeft(code, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }
