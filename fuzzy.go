package geostd

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/rotisserie/eris"
	"github.com/xrash/smetrics"
)

// scorer computes a symmetric 0-100 similarity between normalized names.
// bound returns an upper limit of score from the lengths alone, which
// lets a scan skip candidates that cannot win.
type scorer interface {
	score(a, b string) int
	bound(aBytes, aRunes, bBytes, bRunes int) int
}

// ratioScorer is the normalized Indel similarity: insertions and deletions
// cost 1, substitutions 2, over the combined length in runes.
type ratioScorer struct{}

func (ratioScorer) score(a, b string) int {
	if isASCII(a) && isASCII(b) {
		total := len(a) + len(b)
		if total == 0 {
			return 100
		}
		return percent(total-smetrics.WagnerFischer(a, b, 1, 1, 2), total)
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	return percent(total-indelDistance(ra, rb), total)
}

func (ratioScorer) bound(_, aRunes, _, bRunes int) int {
	total := aRunes + bRunes
	if total == 0 {
		return 100
	}
	return percent(total-abs(aRunes-bRunes), total)
}

// indelDistance is the insert/delete edit distance of two rune slices,
// len(a)+len(b) less twice their longest common subsequence.
func indelDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return len(a) + len(b) - 2*prev[len(b)]
}

// levenshteinScorer is 1 - levenshtein/maxlen over runes.
type levenshteinScorer struct{}

func (levenshteinScorer) score(a, b string) int {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	return percent(longest-levenshtein.ComputeDistance(a, b), longest)
}

func (levenshteinScorer) bound(_, aRunes, _, bRunes int) int {
	longest := max(aRunes, bRunes)
	if longest == 0 {
		return 100
	}
	return percent(longest-abs(aRunes-bRunes), longest)
}

func scorerByName(name string) (scorer, error) {
	switch name {
	case "", ScorerRatio:
		return ratioScorer{}, nil
	case ScorerLevenshtein:
		return levenshteinScorer{}, nil
	}
	return nil, eris.Wrapf(ErrInvalidConfig, "unknown scorer %q", name)
}

// Score returns the similarity of two raw strings under the named scorer,
// after normalization.
func Score(scorerName, a, b string) (int, error) {
	sc, err := scorerByName(scorerName)
	if err != nil {
		return 0, err
	}
	return sc.score(NormalizeName(a), NormalizeName(b)), nil
}

func percent(num, den int) int {
	return int(math.Round(100 * float64(num) / float64(den)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type corpusEntry struct {
	key   string
	bytes int
	runes int
	idx   int // row in the store table
}

// corpus is sorted by key; scan order is the tie-break order.
type corpus []corpusEntry

// Match is a fuzzy search hit.
type Match struct {
	Entry Entry
	Key   string // corpus key that matched
	Score int
}

// FuzzyMatcher finds the best-scoring reference name above a threshold.
// Its corpora are built once and only read afterwards.
type FuzzyMatcher struct {
	store   *Store
	scorer  scorer
	corpora [3]corpus
}

// NewFuzzyMatcher builds the sorted corpora over store. Only the scorer
// and CityCorpusLimit settings apply here.
func NewFuzzyMatcher(store *Store, opts ...Option) (*FuzzyMatcher, error) {
	o := buildOptions(opts)
	sc, err := scorerByName(o.config.Scorer)
	if err != nil {
		return nil, err
	}
	if o.config.CityCorpusLimit < 0 {
		return nil, eris.Wrapf(ErrInvalidConfig, "cityCorpusLimit must not be negative, got %d", o.config.CityCorpusLimit)
	}

	m := &FuzzyMatcher{store: store, scorer: sc}

	names := make([]string, len(store.countries))
	for i, c := range store.countries {
		names[i] = c.Name
	}
	m.corpora[ClassCountry] = buildCorpus(names, store.countryByName)

	names = make([]string, len(store.states))
	for i, s := range store.states {
		names[i] = s.Name
	}
	m.corpora[ClassState] = buildCorpus(names, store.stateByName)

	cities := store.cities
	if limit := o.config.CityCorpusLimit; limit > 0 && limit < len(cities) {
		cities = cities[:limit]
	}
	names = make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Name
	}
	m.corpora[ClassCity] = buildCorpus(names, store.cityByName)
	return m, nil
}

// buildCorpus collects the canonical and ASCII-folded keys of the given
// rows. Each key points at the row the store index resolves it to, so a
// name shared by several rows appears once.
func buildCorpus(names []string, index map[string]int) corpus {
	seen := make(map[string]bool, len(names))
	c := make(corpus, 0, len(names))
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		idx, ok := index[key]
		if !ok {
			return
		}
		seen[key] = true
		c = append(c, corpusEntry{key: key, bytes: len(key), runes: utf8.RuneCountInString(key), idx: idx})
	}
	for _, name := range names {
		key := NormalizeName(name)
		add(key)
		add(foldASCII(key))
	}
	sort.Slice(c, func(i, j int) bool { return c[i].key < c[j].key })
	return c
}

// CorpusSize returns the number of candidate keys for class.
func (m *FuzzyMatcher) CorpusSize(class Class) int {
	if class < 0 || int(class) >= len(m.corpora) {
		return 0
	}
	return len(m.corpora[class])
}

// BestMatch returns the highest-scoring candidate with score >= threshold.
// Equal scores resolve to the candidate that sorts first.
func (m *FuzzyMatcher) BestMatch(class Class, raw string, threshold int) (Match, bool) {
	return m.BestMatchFunc(class, raw, threshold, nil)
}

// BestMatchFunc is BestMatch restricted to candidates accept approves.
// A nil accept approves everything.
func (m *FuzzyMatcher) BestMatchFunc(class Class, raw string, threshold int, accept func(Entry) bool) (Match, bool) {
	if class < 0 || int(class) >= len(m.corpora) {
		return Match{}, false
	}
	q := NormalizeName(truncateRunes(raw, maxInputLen))
	if q == "" {
		return Match{}, false
	}
	if threshold < 0 {
		threshold = 0
	}
	qBytes, qRunes := len(q), utf8.RuneCountInString(q)

	c := m.corpora[class]
	best, bestScore := -1, -1
	for i := range c {
		e := &c[i]
		b := m.scorer.bound(qBytes, qRunes, e.bytes, e.runes)
		if b < threshold || b <= bestScore {
			continue
		}
		sc := m.scorer.score(q, e.key)
		if sc < threshold || sc <= bestScore {
			continue
		}
		if accept != nil && !accept(m.store.entryAt(class, e.idx)) {
			continue
		}
		best, bestScore = i, sc
		if sc == 100 {
			break
		}
	}
	if best < 0 {
		return Match{}, false
	}
	e := c[best]
	return Match{Entry: m.store.entryAt(class, e.idx), Key: e.key, Score: bestScore}, true
}

func (s *Store) entryAt(class Class, idx int) Entry {
	switch class {
	case ClassCountry:
		return s.countries[idx]
	case ClassState:
		return s.states[idx]
	case ClassCity:
		return s.cities[idx]
	}
	return nil
}
