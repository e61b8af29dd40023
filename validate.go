package geostd

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// maxValidationFailures caps the failures kept in a ValidationReport.
const maxValidationFailures = 50

// ValidationReport is the result of Validate.
type ValidationReport struct {
	Countries int `json:"countries"`
	States    int `json:"states"`
	Cities    int `json:"cities"`
	// Shadowed counts rows whose name is owned by another row under the
	// conflict policy. They are not checked.
	Shadowed int `json:"shadowed"`
	// Located counts cities with coordinates that NearestCity found.
	Located  int      `json:"located"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}

func (r *ValidationReport) fail(format string, args ...any) {
	r.Failed++
	if len(r.Failures) < maxValidationFailures {
		r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	}
}

// Validate checks that the reference data standardizes onto itself: every
// country and state display name resolves exactly to its own code, every
// city name resolves exactly to a city of the same name, and every city
// with coordinates is found by NearestCity. It returns the report and a
// non-nil error if any check failed.
func Validate(std *Standardizer) (ValidationReport, error) {
	s := std.store
	var r ValidationReport

	for i, c := range s.countries {
		key := NormalizeName(c.Name)
		if owner, ok := s.countryByName[key]; !ok || owner != i {
			r.Shadowed++
			continue
		}
		r.Countries++
		_, res := std.Standardize(Record{Country: Some(c.Name)}, nil)
		if res.Country.Outcome != Exact || res.Country.Code != c.ISO3 {
			r.fail("country %q = %s %q, want exact %q", c.Name, res.Country.Outcome, res.Country.Code, c.ISO3)
		}
	}

	for i, st := range s.states {
		key := NormalizeName(st.Name)
		if owner, ok := s.stateByName[key]; !ok || owner != i {
			r.Shadowed++
			continue
		}
		r.States++
		_, res := std.Standardize(Record{State: Some(st.Name)}, nil)
		if res.State.Outcome != Exact || res.State.Code != st.Code {
			r.fail("state %q = %s %q, want exact %q", st.Name, res.State.Outcome, res.State.Code, st.Code)
		}
	}

	for i, c := range s.cities {
		key := NormalizeName(c.Name)
		if owner, ok := s.cityByName[key]; !ok || owner != i {
			r.Shadowed++
		} else {
			r.Cities++
			_, res := std.Standardize(Record{City: Some(c.Name)}, nil)
			if res.City.Outcome != Exact || res.CityEntry == nil || NormalizeName(res.CityEntry.Name) != key {
				r.fail("city %q = %s %q, want exact %q", c.Name, res.City.Outcome, res.City.Code, c.Code)
			}
		}
		if c.HasCoordinates() {
			if _, ok := s.NearestCity(*c.Latitude, *c.Longitude); ok {
				r.Located++
			} else {
				r.fail("city %q at (%v, %v) not found by coordinates", c.Name, *c.Latitude, *c.Longitude)
			}
		}
	}

	if r.Failed > 0 {
		return r, eris.Errorf("%d reference entries failed validation", r.Failed)
	}
	return r, nil
}
