package geostd

import "fmt"

// Class identifies one of the three reference tables.
type Class int

const (
	ClassCountry Class = iota
	ClassState
	ClassCity
)

// Classes lists every entity class in resolution-stage order.
var Classes = []Class{ClassCity, ClassCountry, ClassState}

func (c Class) String() string {
	switch c {
	case ClassCountry:
		return "country"
	case ClassState:
		return "state"
	case ClassCity:
		return "city"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Country is a row of the Countries table.
type Country struct {
	ID   int    `db:"id"`
	ISO2 string `db:"iso2"`
	ISO3 string `db:"iso3"` // canonical code
	Name string `db:"display_name"`
}

// State is a row of the States table. CountryCode is a lookup key into
// the Countries table, not an ownership link.
type State struct {
	ID          int    `db:"id"`
	Code        string `db:"code"`
	ISO3166_2   string `db:"iso3166_2"`
	Name        string `db:"display_name"`
	CountryCode string `db:"country_code"`
}

// City is a row of the Cities table. The country and state fields are
// denormalized copies and are authoritative for the city's own geography,
// even when they cannot be re-resolved through the other tables.
type City struct {
	Code        string   `db:"code"`
	Name        string   `db:"display_name"`
	CountryCode string   `db:"country_code"`
	StateCode   string   `db:"state_code"`
	CountryID   int      `db:"country_id"`
	StateID     int      `db:"state_id"`
	CountryName string   `db:"country_name"`
	StateName   string   `db:"state_name"`
	Population  int      `db:"population"`
	Latitude    *float64 `db:"latitude"`
	Longitude   *float64 `db:"longitude"`
}

// HasCoordinates reports whether both coordinates are present.
func (c City) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Entry is any reference-table row.
type Entry interface {
	Class() Class
	DisplayName() string
	CanonicalCode() string
}

func (Country) Class() Class            { return ClassCountry }
func (c Country) DisplayName() string   { return c.Name }
func (c Country) CanonicalCode() string { return c.ISO3 }
func (State) Class() Class              { return ClassState }
func (s State) DisplayName() string     { return s.Name }
func (s State) CanonicalCode() string   { return s.Code }
func (City) Class() Class               { return ClassCity }
func (c City) DisplayName() string      { return c.Name }
func (c City) CanonicalCode() string    { return c.Code }
