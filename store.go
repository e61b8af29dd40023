package geostd

import (
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Store is the immutable, indexed reference data: countries, states and
// cities plus the static alias table. It is built once and is safe for
// concurrent use without synchronization.
type Store struct {
	countries []Country
	states    []State
	cities    []City

	countryByName map[string]int
	countryByID   map[int]int
	countryByCode map[string]int // upper-case ISO2 and ISO3

	stateByName map[string]int
	stateByID   map[int]int
	stateByISO  map[string]int   // upper-case ISO 3166-2
	stateByCode map[string][]int // upper-case short code; ambiguous when len > 1

	cityByName map[string]int
	cityByCode map[string]int

	cellIndex map[s2.CellID][]int

	stats StoreStats
	log   *zap.Logger
}

// StoreStats describes what a Store indexed.
type StoreStats struct {
	Countries int `json:"countries"`
	States    int `json:"states"`
	Cities    int `json:"cities"`

	CountryKeys int `json:"countryKeys"`
	StateKeys   int `json:"stateKeys"`
	CityKeys    int `json:"cityKeys"`

	// Conflicts counts rows whose normalized name was already taken by
	// another row of the same table.
	CountryConflicts int `json:"countryConflicts"`
	StateConflicts   int `json:"stateConflicts"`
	CityConflicts    int `json:"cityConflicts"`

	Aliases        int `json:"aliases"`
	AliasesSkipped int `json:"aliasesSkipped"`
}

// Load reads the snapshot at location and builds a Store. A location
// ending in .db, .sqlite or .sqlite3 is read as a SQLite snapshot; any
// other location is a gob snapshot directory.
//
// Example:
//
//	store, err := geostd.Load("./snapshot", geostd.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load(location string, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	start := time.Now()

	snap, err := readSnapshotAt(location)
	if err != nil {
		return nil, eris.Wrapf(err, "loading snapshot %s", location)
	}
	s, err := newStore(snap, o.logger)
	if err != nil {
		return nil, eris.Wrapf(err, "loading snapshot %s", location)
	}
	s.log.Info("reference data loaded",
		zap.String("location", location),
		zap.Int("countries", s.stats.Countries),
		zap.Int("states", s.stats.States),
		zap.Int("cities", s.stats.Cities),
		zap.Duration("took", time.Since(start)))
	return s, nil
}

// NewStore builds a Store from an in-memory snapshot. All three tables
// must be non-empty. The snapshot slices are copied.
func NewStore(snap *Snapshot, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	return newStore(snap, o.logger)
}

func newStore(snap *Snapshot, log *zap.Logger) (*Store, error) {
	if snap == nil {
		return nil, missingTable("countries", nil)
	}
	switch {
	case len(snap.Countries) == 0:
		return nil, missingTable("countries", nil)
	case len(snap.States) == 0:
		return nil, missingTable("states", nil)
	case len(snap.Cities) == 0:
		return nil, missingTable("cities", nil)
	}

	s := &Store{
		countries: append([]Country(nil), snap.Countries...),
		states:    append([]State(nil), snap.States...),
		cities:    append([]City(nil), snap.Cities...),

		countryByName: make(map[string]int, len(snap.Countries)*2),
		countryByID:   make(map[int]int, len(snap.Countries)),
		countryByCode: make(map[string]int, len(snap.Countries)*2),
		stateByName:   make(map[string]int, len(snap.States)*2),
		stateByID:     make(map[int]int, len(snap.States)),
		stateByISO:    make(map[string]int, len(snap.States)),
		stateByCode:   make(map[string][]int, len(snap.States)),
		cityByName:    make(map[string]int, len(snap.Cities)),
		cityByCode:    make(map[string]int, len(snap.Cities)),
		log:           log,
	}
	s.stats.Countries = len(s.countries)
	s.stats.States = len(s.states)
	s.stats.Cities = len(s.cities)

	s.indexCountries()
	s.indexStates()
	s.indexCities()
	s.addAliases()
	s.buildCellIndex()

	s.stats.CountryKeys = len(s.countryByName)
	s.stats.StateKeys = len(s.stateByName)
	s.stats.CityKeys = len(s.cityByName)

	if n := s.stats.CountryConflicts + s.stats.StateConflicts + s.stats.CityConflicts; n > 0 {
		s.log.Warn("duplicate normalized names in snapshot",
			zap.Int("countries", s.stats.CountryConflicts),
			zap.Int("states", s.stats.StateConflicts),
			zap.Int("cities", s.stats.CityConflicts))
	}
	return s, nil
}

func (s *Store) indexCountries() {
	for i, c := range s.countries {
		s.countryByID[c.ID] = i
		if c.ISO2 != "" {
			s.countryByCode[strings.ToUpper(c.ISO2)] = i
		}
		if c.ISO3 != "" {
			s.countryByCode[strings.ToUpper(c.ISO3)] = i
		}
		key := NormalizeName(c.Name)
		if key == "" {
			continue
		}
		if _, ok := s.countryByName[key]; ok {
			s.stats.CountryConflicts++
			s.log.Debug("country name conflict, last loaded wins", zap.String("key", key), zap.Int("id", c.ID))
		}
		s.countryByName[key] = i
	}
	for i, c := range s.countries {
		addFolded(s.countryByName, NormalizeName(c.Name), i)
	}
}

func (s *Store) indexStates() {
	for i, st := range s.states {
		s.stateByID[st.ID] = i
		if st.ISO3166_2 != "" {
			s.stateByISO[strings.ToUpper(st.ISO3166_2)] = i
		}
		if st.Code != "" {
			code := strings.ToUpper(st.Code)
			s.stateByCode[code] = append(s.stateByCode[code], i)
		}
		key := NormalizeName(st.Name)
		if key == "" {
			continue
		}
		if _, ok := s.stateByName[key]; ok {
			s.stats.StateConflicts++
			s.log.Debug("state name conflict, last loaded wins", zap.String("key", key), zap.Int("id", st.ID))
		}
		s.stateByName[key] = i
	}
	for i, st := range s.states {
		addFolded(s.stateByName, NormalizeName(st.Name), i)
	}
}

// indexCities applies the city conflict policy: the more populous city
// keeps a shared name, and on equal population the last loaded wins.
func (s *Store) indexCities() {
	for i, c := range s.cities {
		if c.Code != "" {
			s.cityByCode[c.Code] = i
		}
		key := NormalizeName(c.Name)
		if key == "" {
			continue
		}
		if prev, ok := s.cityByName[key]; ok {
			s.stats.CityConflicts++
			if s.cities[prev].Population > c.Population {
				continue
			}
		}
		s.cityByName[key] = i
	}
	for i, c := range s.cities {
		addFolded(s.cityByName, NormalizeName(c.Name), i)
	}
}

// addFolded indexes the ASCII transliteration of key for row i, provided
// row i owns key and the folded key is not already taken.
func addFolded(index map[string]int, key string, i int) {
	if owner, ok := index[key]; !ok || owner != i {
		return
	}
	folded := foldASCII(key)
	if folded == "" {
		return
	}
	if _, ok := index[folded]; !ok {
		index[folded] = i
	}
}

// addAliases duplicates canonical entries under the static alias keys.
// An alias never shadows a name the snapshot provides, and an alias whose
// canonical entry is missing is skipped.
func (s *Store) addAliases() {
	add := func(index map[string]int, aliases map[string]string, class Class) {
		for alias, canonical := range aliases {
			idx, ok := index[canonical]
			if !ok {
				s.stats.AliasesSkipped++
				s.log.Debug("alias target not in snapshot", zap.Stringer("class", class),
					zap.String("alias", alias), zap.String("canonical", canonical))
				continue
			}
			if _, taken := index[alias]; taken {
				s.stats.AliasesSkipped++
				continue
			}
			index[alias] = idx
			s.stats.Aliases++
		}
	}
	add(s.countryByName, countryAliases, ClassCountry)
	add(s.stateByName, stateAliases, ClassState)
}

// Stats returns load statistics.
func (s *Store) Stats() StoreStats {
	return s.stats
}

// Countries returns a copy of the Countries table in load order.
func (s *Store) Countries() []Country {
	return append([]Country(nil), s.countries...)
}

// States returns a copy of the States table in load order.
func (s *Store) States() []State {
	return append([]State(nil), s.states...)
}

// Cities returns a copy of the Cities table in load order.
func (s *Store) Cities() []City {
	return append([]City(nil), s.cities...)
}

func (s *Store) countryByKey(key string) (Country, bool) {
	if i, ok := s.countryByName[key]; ok {
		return s.countries[i], true
	}
	return Country{}, false
}

func (s *Store) stateByKey(key string) (State, bool) {
	if i, ok := s.stateByName[key]; ok {
		return s.states[i], true
	}
	return State{}, false
}

func (s *Store) cityByKey(key string) (City, bool) {
	if i, ok := s.cityByName[key]; ok {
		return s.cities[i], true
	}
	return City{}, false
}

// CountryByID returns the country with the given id.
func (s *Store) CountryByID(id int) (Country, bool) {
	if i, ok := s.countryByID[id]; ok {
		return s.countries[i], true
	}
	return Country{}, false
}

// CountryByCode returns the country with the given ISO2 or ISO3 code,
// case-insensitively.
func (s *Store) CountryByCode(code string) (Country, bool) {
	if i, ok := s.countryByCode[strings.ToUpper(code)]; ok {
		return s.countries[i], true
	}
	return Country{}, false
}

// StateByID returns the state with the given id.
func (s *Store) StateByID(id int) (State, bool) {
	if i, ok := s.stateByID[id]; ok {
		return s.states[i], true
	}
	return State{}, false
}

// StateByCode returns the state with the given ISO 3166-2 code, or with
// the given short code when exactly one country uses it.
func (s *Store) StateByCode(code string) (State, bool) {
	code = strings.ToUpper(code)
	if i, ok := s.stateByISO[code]; ok {
		return s.states[i], true
	}
	if idx := s.stateByCode[code]; len(idx) == 1 {
		return s.states[idx[0]], true
	}
	return State{}, false
}

// CityByCode returns the city with the given code.
func (s *Store) CityByCode(code string) (City, bool) {
	if i, ok := s.cityByCode[code]; ok {
		return s.cities[i], true
	}
	return City{}, false
}

// Default result limits of the browse lookups.
const (
	DefaultSearchLimit        = 10
	DefaultCountryCitiesLimit = 50
)

// nameContains reports whether q is a substring of the normalized name or
// of its ASCII folding.
func nameContains(name, q string) bool {
	key := NormalizeName(name)
	if strings.Contains(key, q) {
		return true
	}
	folded := foldASCII(key)
	return folded != "" && strings.Contains(folded, q)
}

// SearchCities returns cities whose name contains query, in load order,
// at most limit of them. A limit <= 0 means DefaultSearchLimit. Cities
// that lost their name to a namesake are included.
func (s *Store) SearchCities(query string, limit int) []City {
	q := NormalizeName(query)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []City
	for _, c := range s.cities {
		if nameContains(c.Name, q) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// CitiesByCountry returns cities of the country with the given ISO2 or
// ISO3 code, in load order, at most limit of them. A limit <= 0 means
// DefaultCountryCitiesLimit. A city belongs to the country when its
// country code or country id matches.
func (s *Store) CitiesByCountry(code string, limit int) []City {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultCountryCitiesLimit
	}
	country, known := s.CountryByCode(code)

	var out []City
	for _, c := range s.cities {
		match := strings.EqualFold(c.CountryCode, code)
		if !match && known {
			match = (c.CountryID != 0 && c.CountryID == country.ID) ||
				strings.EqualFold(c.CountryCode, country.ISO2) || strings.EqualFold(c.CountryCode, country.ISO3)
		}
		if match {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// SearchStates returns states whose name contains query, in load order,
// at most limit of them. A limit <= 0 means DefaultSearchLimit.
func (s *Store) SearchStates(query string, limit int) []State {
	q := NormalizeName(query)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []State
	for _, st := range s.states {
		if nameContains(st.Name, q) {
			out = append(out, st)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
