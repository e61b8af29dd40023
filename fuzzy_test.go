package geostd

import (
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		scorer string
		a, b   string
		want   int
	}{
		{ScorerRatio, "Calfornia", "California", 95},
		{ScorerRatio, "rio de janero", "rio de janeiro", 96},
		{ScorerRatio, "untied states", "united states", 92},
		{ScorerRatio, "brazl", "brazil", 91},
		{ScorerRatio, "texs", "texas", 89},
		{ScorerRatio, "wakanda", "rwanda", 77},
		{ScorerRatio, "frence", "france", 83},
		{ScorerRatio, "abcd", "abce", 75},
		{ScorerRatio, "same", "SAME ", 100},
		{ScorerRatio, "Québec", "Quebec", 83},
		{ScorerRatio, "Zürich", "Zurich", 83},
		{ScorerRatio, "São Paulo", "Sao Paulo", 89},
		{ScorerRatio, "東京", "東京都", 80},
		{ScorerLevenshtein, "calfornia", "california", 90},
		{ScorerLevenshtein, "rio de janero", "rio de janeiro", 93},
		{ScorerLevenshtein, "abcd", "abce", 75},
	}

	for _, tt := range tests {
		got, err := Score(tt.scorer, tt.a, tt.b)
		if err != nil {
			t.Fatalf("Score(%q, %q, %q): %v", tt.scorer, tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("Score(%q, %q, %q) = %d, want %d", tt.scorer, tt.a, tt.b, got, tt.want)
		}
		// Symmetric.
		if rev, _ := Score(tt.scorer, tt.b, tt.a); rev != got {
			t.Errorf("Score(%q, %q, %q) = %d, reversed %d", tt.scorer, tt.a, tt.b, got, rev)
		}
	}

	if _, err := Score("jaro", "a", "b"); err == nil {
		t.Error("Score with unknown scorer: want error")
	}
}

func TestScorerBoundIsUpperLimit(t *testing.T) {
	pairs := [][2]string{
		{"calfornia", "california"},
		{"a", "abcdefgh"},
		{"são paulo", "sao paulo"},
		{"québec", "quebec"},
		{"", "x"},
		{"london", "lisbon"},
	}
	for _, sc := range []scorer{ratioScorer{}, levenshteinScorer{}} {
		for _, p := range pairs {
			a, b := p[0], p[1]
			bound := sc.bound(len(a), len([]rune(a)), len(b), len([]rune(b)))
			if got := sc.score(a, b); got > bound {
				t.Errorf("%T score(%q, %q) = %d exceeds bound %d", sc, a, b, got, bound)
			}
		}
	}
}

func TestBestMatch(t *testing.T) {
	m, err := NewFuzzyMatcher(newFixtureStore(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		class     Class
		query     string
		threshold int
		wantCode  string // "" means no match
		wantScore int
	}{
		{ClassCountry, "Germny", 85, "DEU", 92},
		{ClassCountry, "Untied States", 85, "USA", 92},
		{ClassCountry, "Brazl", 85, "BRA", 91},
		{ClassCountry, "Frence", 85, "", 0},
		{ClassCountry, "Frence", 80, "FRA", 83},
		{ClassCountry, "Wakanda", 85, "", 0},
		{ClassState, "Texs", 80, "TX", 89},
		{ClassState, "Ontaro", 80, "ON", 92},
		{ClassState, "Calfornia", 80, "CA", 95},
		{ClassCity, "Houstn", 75, "houston", 92},
		{ClassCity, "Londn", 75, "london", 91},
		{ClassCity, "Lisbn", 75, "lisbon", 91},
		{ClassCity, "Sao Paolo", 75, "sao-paulo", 89},
		{ClassCity, "   ", 0, "", 0},
	}

	for _, tt := range tests {
		got, ok := m.BestMatch(tt.class, tt.query, tt.threshold)
		if tt.wantCode == "" {
			if ok {
				t.Errorf("BestMatch(%s, %q, %d) = %q (%d), want no match",
					tt.class, tt.query, tt.threshold, got.Entry.CanonicalCode(), got.Score)
			}
			continue
		}
		if !ok {
			t.Errorf("BestMatch(%s, %q, %d): no match, want %q", tt.class, tt.query, tt.threshold, tt.wantCode)
			continue
		}
		if got.Entry.CanonicalCode() != tt.wantCode || got.Score != tt.wantScore {
			t.Errorf("BestMatch(%s, %q, %d) = %q (%d), want %q (%d)",
				tt.class, tt.query, tt.threshold, got.Entry.CanonicalCode(), got.Score, tt.wantCode, tt.wantScore)
		}
	}
}

func TestBestMatchNeverBelowThreshold(t *testing.T) {
	m, err := NewFuzzyMatcher(newFixtureStore(t))
	if err != nil {
		t.Fatal(err)
	}
	queries := []string{"a", "lon", "paris texas", "torontoo", "rio", "new", "sanfran", "xyz corp", "cali"}
	for _, class := range Classes {
		for threshold := 0; threshold <= 100; threshold += 10 {
			for _, q := range queries {
				if got, ok := m.BestMatch(class, q, threshold); ok && got.Score < threshold {
					t.Errorf("BestMatch(%s, %q, %d) score %d below threshold", class, q, threshold, got.Score)
				}
			}
		}
	}
}

func TestBestMatchTieBreak(t *testing.T) {
	m, err := NewFuzzyMatcher(newFixtureStore(t))
	if err != nil {
		t.Fatal(err)
	}

	// "rio de janeero" and "rio de janeiro" both score 96; the first in
	// sorted order wins, every time.
	for i := 0; i < 20; i++ {
		got, ok := m.BestMatch(ClassCity, "Rio de Janero", 75)
		if !ok || got.Key != "rio de janeero" || got.Score != 96 {
			t.Fatalf("BestMatch tie = %q (%d, %v), want \"rio de janeero\" (96)", got.Key, got.Score, ok)
		}
	}

	brazil := func(e Entry) bool { return e.(City).CountryCode == "BR" }
	got, ok := m.BestMatchFunc(ClassCity, "Rio de Janero", 75, brazil)
	if !ok || got.Entry.CanonicalCode() != "rio-de-janeiro" || got.Score != 96 {
		t.Errorf("BestMatchFunc(brazil) = %q (%d, %v), want rio-de-janeiro (96)", got.Key, got.Score, ok)
	}

	none := func(Entry) bool { return false }
	if _, ok := m.BestMatchFunc(ClassCity, "Rio de Janero", 75, none); ok {
		t.Error("BestMatchFunc with rejecting filter: want no match")
	}
}

func TestLevenshteinScorer(t *testing.T) {
	m, err := NewFuzzyMatcher(newFixtureStore(t), WithScorer(ScorerLevenshtein))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := m.BestMatch(ClassState, "Calfornia", 80)
	if !ok || got.Entry.CanonicalCode() != "CA" || got.Score != 90 {
		t.Errorf("BestMatch(levenshtein) = %q (%d, %v), want CA (90)", got.Key, got.Score, ok)
	}

	if _, err := NewFuzzyMatcher(newFixtureStore(t), WithScorer("soundex")); err == nil {
		t.Error("NewFuzzyMatcher with unknown scorer: want error")
	}
}

func TestCorpus(t *testing.T) {
	store := newFixtureStore(t)
	m, err := NewFuzzyMatcher(store)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.CorpusSize(ClassCountry); got != 8 {
		t.Errorf("country corpus = %d, want 8", got)
	}
	// São Paulo is indexed under its folded form too.
	if got := m.CorpusSize(ClassState); got != 7 {
		t.Errorf("state corpus = %d, want 7", got)
	}
	if got := m.CorpusSize(ClassCity); got != 14 {
		t.Errorf("city corpus = %d, want 14", got)
	}

	c := m.corpora[ClassCity]
	for i := 1; i < len(c); i++ {
		if c[i-1].key >= c[i].key {
			t.Fatalf("corpus not sorted at %d: %q >= %q", i, c[i-1].key, c[i].key)
		}
	}

	// Aliases are exact-only.
	for _, e := range m.corpora[ClassCountry] {
		if _, ok := countryAliases[e.key]; ok {
			t.Errorf("alias %q in country corpus", e.key)
		}
	}
}

func TestCityCorpusLimit(t *testing.T) {
	store := newFixtureStore(t)

	limited, err := NewFuzzyMatcher(store, WithCityCorpusLimit(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := limited.CorpusSize(ClassCity); got != 1 {
		t.Fatalf("limited city corpus = %d, want 1", got)
	}
	if got, ok := limited.BestMatch(ClassCity, "Houstn", 75); ok {
		t.Errorf("BestMatch past corpus limit = %q, want no match", got.Key)
	}
	if got, ok := limited.BestMatch(ClassCity, "Austn", 75); !ok || got.Key != "austin" {
		t.Errorf("BestMatch within corpus limit = %q (%v), want austin", got.Key, ok)
	}

	unbounded, err := NewFuzzyMatcher(store, WithCityCorpusLimit(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := unbounded.CorpusSize(ClassCity); got != 14 {
		t.Errorf("unbounded city corpus = %d, want 14", got)
	}

	if _, err := NewFuzzyMatcher(store, WithCityCorpusLimit(-1)); err == nil {
		t.Error("negative corpus limit: want error")
	}
}

func TestBestMatchTruncatesLongInput(t *testing.T) {
	m, err := NewFuzzyMatcher(newFixtureStore(t))
	if err != nil {
		t.Fatal(err)
	}
	long := make([]byte, 10000)
	for i := range long {
		long[i] = 'a'
	}
	if got, ok := m.BestMatch(ClassCity, string(long), 75); ok {
		t.Errorf("BestMatch(long input) = %q, want no match", got.Key)
	}
}
