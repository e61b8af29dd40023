package geostd

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// maxInputLen limits input length before fuzzy scoring. Edit-distance
// scoring is quadratic in the input, and 256 runes covers every real
// place name and address fragment.
const maxInputLen = 256

// NormalizeName returns the lookup key for raw text: trimmed, lowercased
// and NFC-composed so that "São Paulo" and "São Paulo" share a key.
// Applying NormalizeName twice yields the same key.
func NormalizeName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return norm.NFC.String(strings.ToLower(s))
}

// foldASCII transliterates a normalized key to plain ASCII. It returns ""
// when the key is already ASCII or folding produced nothing usable.
func foldASCII(key string) string {
	if isASCII(key) {
		return ""
	}
	folded := NormalizeName(unidecode.Unidecode(key))
	if folded == key {
		return ""
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// truncateRunes cuts s to at most n runes without splitting UTF-8.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
