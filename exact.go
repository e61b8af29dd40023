package geostd

// ExactMatcher resolves normalized names by direct map lookup. A lookup is
// a deterministic hit or miss; there is no scoring.
type ExactMatcher struct {
	store *Store
}

// NewExactMatcher returns an ExactMatcher over store.
func NewExactMatcher(store *Store) *ExactMatcher {
	return &ExactMatcher{store: store}
}

// Lookup resolves raw text for the given class. Empty or whitespace-only
// text is a miss.
func (m *ExactMatcher) Lookup(class Class, raw string) (Entry, bool) {
	switch class {
	case ClassCountry:
		if c, ok := m.Country(raw); ok {
			return c, true
		}
	case ClassState:
		if s, ok := m.State(raw); ok {
			return s, true
		}
	case ClassCity:
		if c, ok := m.City(raw); ok {
			return c, true
		}
	}
	return nil, false
}

// Country matches a country name or alias, then an ISO2/ISO3 code.
func (m *ExactMatcher) Country(raw string) (Country, bool) {
	key := NormalizeName(raw)
	if key == "" {
		return Country{}, false
	}
	if c, ok := m.store.countryByKey(key); ok {
		return c, true
	}
	return m.store.CountryByCode(key)
}

// State matches a state name or alias, then an ISO 3166-2 code or an
// unambiguous short code.
func (m *ExactMatcher) State(raw string) (State, bool) {
	key := NormalizeName(raw)
	if key == "" {
		return State{}, false
	}
	if s, ok := m.StateName(raw); ok {
		return s, true
	}
	return m.store.StateByCode(key)
}

// StateName matches a state name or alias only, never a code.
func (m *ExactMatcher) StateName(raw string) (State, bool) {
	key := NormalizeName(raw)
	if key == "" {
		return State{}, false
	}
	return m.store.stateByKey(key)
}

// City matches a city name.
func (m *ExactMatcher) City(raw string) (City, bool) {
	key := NormalizeName(raw)
	if key == "" {
		return City{}, false
	}
	return m.store.cityByKey(key)
}
