package geostd

import (
	"strings"

	"go.uber.org/zap"
)

// minHintLen is the shortest country hint used for substring comparison.
// Shorter hints ("in", "us") only count when they resolve to a country.
const minHintLen = 3

// Resolver resolves the geographic fields of one record in three stages:
// city, then country, then state. The city runs first because a resolved
// city carries the country and state it belongs to, which the later stages
// fall back to. Resolver holds no mutable state.
type Resolver struct {
	store *Store
	exact *ExactMatcher
	fuzzy *FuzzyMatcher
	cfg   Config
	log   *zap.Logger
}

// NewResolver builds a Resolver and its matchers over store.
func NewResolver(store *Store, opts ...Option) (*Resolver, error) {
	o := buildOptions(opts)
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	fuzzy, err := NewFuzzyMatcher(store, opts...)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		store: store,
		exact: NewExactMatcher(store),
		fuzzy: fuzzy,
		cfg:   o.config,
		log:   o.logger,
	}, nil
}

// Config returns the resolver configuration.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Resolve runs the three stages over rec. It never fails; fields that
// cannot be resolved come back Unresolved.
func (r *Resolver) Resolve(rec Record) Resolution {
	var res Resolution
	r.resolveCity(rec, &res)
	r.resolveCountry(rec, &res)
	r.resolveState(rec, &res)
	return res
}

// resolveCity tries, in order: exact city; exact state name (the city
// field holds a state); fuzzy city against fuzzy state, where the state
// wins only on a strictly higher score; then a city extracted from the
// address. The address is also tried when the city field is absent.
func (r *Resolver) resolveCity(rec Record, res *Resolution) {
	hint, _ := rec.Country.Get()

	if raw, ok := rec.City.Get(); ok {
		res.City.Raw = raw
		if c, ok := r.exact.City(raw); ok {
			r.setCity(res, c, Exact, 0)
			return
		}
		if st, ok := r.exact.StateName(raw); ok {
			r.setReclassified(res, st, 0)
			return
		}

		cityMatch, cityOK := r.fuzzyCity(raw, hint)
		stateMatch, stateOK := r.fuzzy.BestMatch(ClassState, raw, r.cfg.StateThreshold)
		if stateOK && (!cityOK || stateMatch.Score > cityMatch.Score) {
			r.setReclassified(res, stateMatch.Entry.(State), stateMatch.Score)
			return
		}
		if cityOK {
			r.log.Debug("fuzzy city match", zap.String("raw", raw),
				zap.String("matched", cityMatch.Key), zap.Int("score", cityMatch.Score))
			r.setCity(res, cityMatch.Entry.(City), Fuzzy, cityMatch.Score)
			return
		}
	}

	addr, ok := rec.Address.Get()
	if !ok {
		return
	}
	cand, ok := extractAddressCity(addr, r.exact)
	if !ok {
		return
	}
	if c, ok := r.exact.City(cand.text); ok {
		r.setCity(res, c, FromAddress, 0)
		return
	}
	if m, ok := r.fuzzyCity(cand.text, hint); ok {
		r.setCity(res, m.Entry.(City), FromAddress, m.Score)
	}
}

// fuzzyCity searches the city corpus, restricted to cities compatible with
// the country hint when one is present.
func (r *Resolver) fuzzyCity(raw, hint string) (Match, bool) {
	return r.fuzzy.BestMatchFunc(ClassCity, raw, r.cfg.CityThreshold, r.countryHintFilter(hint))
}

// countryHintFilter returns nil for a blank hint. Otherwise a city passes
// when its country name and the hint contain one another, or when the hint
// resolves to the city's country. Cities without any country data pass.
func (r *Resolver) countryHintFilter(hint string) func(Entry) bool {
	h := NormalizeName(hint)
	if h == "" {
		return nil
	}
	hinted, hintedOK := r.exact.Country(hint)

	return func(e Entry) bool {
		c, ok := e.(City)
		if !ok {
			return false
		}
		if c.CountryName == "" && c.CountryCode == "" && c.CountryID == 0 {
			return true
		}
		if hintedOK {
			if c.CountryID != 0 && c.CountryID == hinted.ID {
				return true
			}
			if c.CountryCode != "" && (strings.EqualFold(c.CountryCode, hinted.ISO2) || strings.EqualFold(c.CountryCode, hinted.ISO3)) {
				return true
			}
		}
		name := NormalizeName(c.CountryName)
		if name == "" || len([]rune(h)) < minHintLen {
			return false
		}
		return strings.Contains(name, h) || strings.Contains(h, name)
	}
}

func (r *Resolver) setCity(res *Resolution, c City, outcome Outcome, score int) {
	res.CityEntry = &c
	res.City.Outcome = outcome
	res.City.Code = c.Code
	res.City.Display = c.Name
	res.City.Score = score
}

// setReclassified records the city field as a state. The city field keeps
// the Reclassified outcome without a code.
func (r *Resolver) setReclassified(res *Resolution, st State, score int) {
	res.City.Outcome = Reclassified
	res.City.Score = score
	res.StateEntry = &st
	res.State = FieldResolution{
		Outcome: Reclassified,
		Code:    st.Code,
		Display: st.Name,
		Score:   score,
		Raw:     res.City.Raw,
	}
}

// resolveCountry tries exact, fuzzy, then the resolved city's country,
// then the country of a state found in the city field.
func (r *Resolver) resolveCountry(rec Record, res *Resolution) {
	if raw, ok := rec.Country.Get(); ok {
		res.Country.Raw = raw
		if c, ok := r.exact.Country(raw); ok {
			r.setCountry(res, c, Exact, 0)
			return
		}
		if m, ok := r.fuzzy.BestMatch(ClassCountry, raw, r.cfg.CountryThreshold); ok {
			r.log.Debug("fuzzy country match", zap.String("raw", raw),
				zap.String("matched", m.Key), zap.Int("score", m.Score))
			r.setCountry(res, m.Entry.(Country), Fuzzy, m.Score)
			return
		}
	}

	if city := res.CityEntry; city != nil {
		code, display := city.CountryCode, city.CountryName
		entry, found := r.store.CountryByID(city.CountryID)
		if !found && code != "" {
			entry, found = r.store.CountryByCode(code)
		}
		if found {
			if code == "" {
				code = entry.ISO3
			}
			if display == "" {
				display = entry.Name
			}
			res.CountryEntry = &entry
		}
		if code != "" && display != "" {
			res.Country.Outcome = FallbackFromCity
			res.Country.Code = code
			res.Country.Display = display
			return
		}
	}

	if res.State.Outcome == Reclassified && res.StateEntry != nil {
		if c, ok := r.store.CountryByCode(res.StateEntry.CountryCode); ok {
			r.setCountry(res, c, FallbackFromState, 0)
		}
	}
}

func (r *Resolver) setCountry(res *Resolution, c Country, outcome Outcome, score int) {
	res.CountryEntry = &c
	res.Country.Outcome = outcome
	res.Country.Code = c.ISO3
	res.Country.Display = c.Name
	res.Country.Score = score
}

// resolveState tries exact, fuzzy, a state found in the city field, then
// the resolved city's state.
func (r *Resolver) resolveState(rec Record, res *Resolution) {
	reclassified := res.State
	if raw, ok := rec.State.Get(); ok {
		if st, ok := r.exact.State(raw); ok {
			r.setState(res, st, Exact, 0, raw)
			return
		}
		if m, ok := r.fuzzy.BestMatch(ClassState, raw, r.cfg.StateThreshold); ok {
			r.log.Debug("fuzzy state match", zap.String("raw", raw),
				zap.String("matched", m.Key), zap.Int("score", m.Score))
			r.setState(res, m.Entry.(State), Fuzzy, m.Score, raw)
			return
		}
		if reclassified.Outcome != Reclassified {
			res.State.Raw = raw
		}
	}

	if reclassified.Outcome == Reclassified {
		return
	}

	if city := res.CityEntry; city != nil {
		code, display := city.StateCode, city.StateName
		if city.StateID != 0 {
			if st, ok := r.store.StateByID(city.StateID); ok {
				if st.Code != "" {
					code = st.Code
				}
				if display == "" {
					display = st.Name
				}
				res.StateEntry = &st
			}
		}
		if code != "" && display != "" {
			res.State.Outcome = FallbackFromCity
			res.State.Code = code
			res.State.Display = display
		}
	}
}

func (r *Resolver) setState(res *Resolution, st State, outcome Outcome, score int, raw string) {
	res.StateEntry = &st
	res.State = FieldResolution{
		Outcome: outcome,
		Code:    st.Code,
		Display: st.Name,
		Score:   score,
		Raw:     raw,
	}
}
