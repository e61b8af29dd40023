package geostd

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Text is an optional free-text input field. The zero value is absent.
// Blank text is treated as absent.
type Text struct {
	value   string
	present bool
}

// Some returns a present Text, or an absent one if s is blank.
func Some(s string) Text {
	if strings.TrimSpace(s) == "" {
		return Text{}
	}
	return Text{value: s, present: true}
}

// Get returns the raw value and whether it is present.
func (t Text) Get() (string, bool) {
	return t.value, t.present
}

// Present reports whether the field carries text.
func (t Text) Present() bool {
	return t.present
}

func (t Text) String() string {
	return t.value
}

// MarshalJSON encodes an absent field as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON accepts a string; null, blank strings and non-string
// values decode as absent rather than failing.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	*t = Some(s)
	return nil
}

// Record is one imported business-contact record. The input fields drive
// resolution; the output fields are nil until resolved. Fields unrelated
// to geography travel in Extra untouched.
type Record struct {
	Country Text
	State   Text
	City    Text
	Address Text

	CountryCode    *string
	CountryDisplay *string
	StateCode      *string
	StateDisplay   *string
	CityCode       *string
	CityDisplay    *string

	Extra map[string]json.RawMessage
}

var recordFields = []string{
	"country", "state", "city", "address",
	"countryCode", "countryDisplay", "stateCode", "stateDisplay", "cityCode", "cityDisplay",
}

func (r *Record) textField(name string) *Text {
	switch name {
	case "country":
		return &r.Country
	case "state":
		return &r.State
	case "city":
		return &r.City
	case "address":
		return &r.Address
	}
	return nil
}

func (r *Record) outputField(name string) **string {
	switch name {
	case "countryCode":
		return &r.CountryCode
	case "countryDisplay":
		return &r.CountryDisplay
	case "stateCode":
		return &r.StateCode
	case "stateDisplay":
		return &r.StateDisplay
	case "cityCode":
		return &r.CityCode
	case "cityDisplay":
		return &r.CityDisplay
	}
	return nil
}

// UnmarshalJSON decodes a flat JSON object. Unknown keys are kept in Extra.
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return eris.Wrap(err, "record must be a JSON object")
	}
	*r = Record{}
	for k, v := range raw {
		if t := r.textField(k); t != nil {
			if err := t.UnmarshalJSON(v); err != nil {
				return err
			}
			continue
		}
		if out := r.outputField(k); out != nil {
			var s *string
			if err := json.Unmarshal(v, &s); err == nil {
				*out = s
			}
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[k] = v
	}
	return nil
}

// MarshalJSON encodes the record as a flat object: Extra fields, then the
// geographic input and output fields, with absent values as null.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+len(recordFields))
	for k, v := range r.Extra {
		out[k] = v
	}
	for _, name := range recordFields {
		if t := r.textField(name); t != nil {
			out[name] = *t
			continue
		}
		out[name] = *r.outputField(name)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, eris.Wrap(err, "encoding record")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Outcome tags how a field was resolved, or why it was not.
type Outcome int

const (
	// Unresolved means the field is absent or nothing matched.
	Unresolved Outcome = iota
	Exact
	Fuzzy
	// FallbackFromCity means the value came from the resolved city's
	// denormalized geography.
	FallbackFromCity
	// FallbackFromState means the country came from the country
	// back-reference of a state found in the city field.
	FallbackFromState
	// Reclassified means the city field held a state name and was
	// resolved as the state.
	Reclassified
	// FromAddress means the city was extracted from the address field.
	FromAddress
)

var outcomeNames = [...]string{
	Unresolved:        "unresolved",
	Exact:             "exact",
	Fuzzy:             "fuzzy",
	FallbackFromCity:  "fallback-from-city",
	FallbackFromState: "fallback-from-state",
	Reclassified:      "reclassified",
	FromAddress:       "from-address",
}

// Outcomes lists every outcome in declaration order.
var Outcomes = []Outcome{Unresolved, Exact, Fuzzy, FallbackFromCity, FallbackFromState, Reclassified, FromAddress}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown-outcome"
}

// MarshalText encodes the outcome name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if name == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return eris.Errorf("unknown outcome %q", b)
}

// FieldResolution is the tagged outcome of one field.
type FieldResolution struct {
	Outcome Outcome `json:"outcome"`
	Code    string  `json:"code,omitempty"`
	Display string  `json:"display,omitempty"`
	// Score is the fuzzy score when Outcome is Fuzzy, or when a fuzzy
	// match produced a Reclassified or FromAddress result.
	Score int `json:"score,omitempty"`
	// Raw is the input text that was considered, if any.
	Raw string `json:"raw,omitempty"`
}

// Resolved reports whether the field produced a value. A city field that
// was Reclassified carries no value of its own.
func (f FieldResolution) Resolved() bool {
	return f.Code != ""
}

// Resolution is the per-field result for one record.
type Resolution struct {
	City    FieldResolution `json:"city"`
	Country FieldResolution `json:"country"`
	State   FieldResolution `json:"state"`

	// Resolved entries, when any; nil otherwise.
	CityEntry    *City    `json:"-"`
	CountryEntry *Country `json:"-"`
	StateEntry   *State   `json:"-"`
}

// Field returns the resolution of class.
func (r Resolution) Field(class Class) FieldResolution {
	switch class {
	case ClassCountry:
		return r.Country
	case ClassState:
		return r.State
	}
	return r.City
}
