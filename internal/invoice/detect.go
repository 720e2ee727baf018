package invoice

import (
	"regexp"

	"github.com/btoninho/adse-navigator/internal"
)

var (
	reLusiadasMarker = regexp.MustCompile(`(?i)Lus[ií]adas`)
	reCUFMarker      = regexp.MustCompile(`(?i)\bCUF\b`)
)

// DetectProvider classifies which hospital group produced the extracted
// invoice text. The more specific Lusíadas marker is tested before the
// generic CUF acronym.
func DetectProvider(text string) internal.Provider {
	if reLusiadasMarker.MatchString(text) {
		return internal.ProviderLusiadas
	}
	if reCUFMarker.MatchString(text) {
		return internal.ProviderCUF
	}
	return internal.ProviderUnknown
}
