package geostd

import (
	"strings"
	"unicode"
)

// addressPrefixes are labels stripped from the start of an address.
var addressPrefixes = []string{
	"address:", "addr:", "street:", "st:", "avenue:", "ave:", "road:", "rd:", "boulevard:", "blvd:",
}

// streetSuffixes mark a part as a street line rather than a place name.
var streetSuffixes = map[string]bool{
	"street": true, "st": true, "st.": true, "avenue": true, "ave": true, "ave.": true,
	"road": true, "rd": true, "rd.": true, "boulevard": true, "blvd": true, "blvd.": true,
	"drive": true, "dr": true, "dr.": true, "lane": true, "ln": true, "ln.": true,
	"way": true, "court": true, "ct": true, "place": true, "pl": true, "highway": true, "hwy": true,
}

// addressSeparators split an address into parts, strongest first.
var addressSeparators = []string{",", ";", "\n", "\t", "  "}

// maxAddressParts is how many trailing parts are scanned for a place name.
const maxAddressParts = 3

// addressCandidate is a place name found in an address.
type addressCandidate struct {
	text    string
	isCity  bool
	isState bool
}

// splitAddress cleans an address and returns its parts in order.
func splitAddress(address string) []string {
	s := strings.TrimSpace(strings.ToLower(address))
	for _, p := range addressPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(s[len(p):])
		}
	}
	if s == "" {
		return nil
	}

	parts := []string{s}
	for _, sep := range addressSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// trimPostalCode drops trailing words that contain digits, so
// "texas 78701" becomes "texas".
func trimPostalCode(part string) string {
	words := strings.Fields(part)
	for len(words) > 0 && strings.ContainsFunc(words[len(words)-1], unicode.IsDigit) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// placeLike reports whether a part can be a place name: longer than two
// characters, letters with inner spaces or punctuation only, and not a
// street line.
func placeLike(part string) bool {
	if len([]rune(part)) <= 2 {
		return false
	}
	hasLetter := false
	for _, r := range part {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '-' || r == '.' || r == '\'':
		default:
			return false
		}
	}
	if !hasLetter {
		return false
	}
	words := strings.Fields(part)
	return !streetSuffixes[words[len(words)-1]]
}

// extractAddressCity scans the trailing parts of an address from last to
// first and returns the first part that is an exact city name. Failing
// that it returns the first part that is a state name, which the caller
// may still try as a city.
func extractAddressCity(address string, exact *ExactMatcher) (addressCandidate, bool) {
	parts := splitAddress(address)
	if len(parts) > maxAddressParts {
		parts = parts[len(parts)-maxAddressParts:]
	}

	var state addressCandidate
	for i := len(parts) - 1; i >= 0; i-- {
		part := trimPostalCode(parts[i])
		if !placeLike(part) {
			continue
		}
		if _, ok := exact.City(part); ok {
			return addressCandidate{text: part, isCity: true}, true
		}
		if state.text == "" {
			if _, ok := exact.StateName(part); ok {
				state = addressCandidate{text: part, isState: true}
			}
		}
	}
	if state.text != "" {
		return state, true
	}
	return addressCandidate{}, false
}
