package geostd

import (
	"testing"
)

func coord(v float64) *float64 { return &v }

// fixtureSnapshot is a small world. Two pairs of cities share a name
// (London, Paris) and "Rio de Janeero" is a fictional near-twin of Rio de
// Janeiro in another country.
func fixtureSnapshot() *Snapshot {
	return &Snapshot{
		Countries: []Country{
			{ID: 1, ISO2: "US", ISO3: "USA", Name: "United States"},
			{ID: 2, ISO2: "GB", ISO3: "GBR", Name: "United Kingdom"},
			{ID: 3, ISO2: "BR", ISO3: "BRA", Name: "Brazil"},
			{ID: 4, ISO2: "PT", ISO3: "PRT", Name: "Portugal"},
			{ID: 5, ISO2: "CA", ISO3: "CAN", Name: "Canada"},
			{ID: 6, ISO2: "FR", ISO3: "FRA", Name: "France"},
			{ID: 7, ISO2: "DE", ISO3: "DEU", Name: "Germany"},
			{ID: 8, ISO2: "RW", ISO3: "RWA", Name: "Rwanda"},
		},
		States: []State{
			{ID: 1, Code: "CA", ISO3166_2: "US-CA", Name: "California", CountryCode: "US"},
			{ID: 2, Code: "TX", ISO3166_2: "US-TX", Name: "Texas", CountryCode: "US"},
			{ID: 3, Code: "NY", ISO3166_2: "US-NY", Name: "New York", CountryCode: "US"},
			{ID: 4, Code: "DC", ISO3166_2: "US-DC", Name: "District of Columbia", CountryCode: "US"},
			{ID: 5, Code: "ON", ISO3166_2: "CA-ON", Name: "Ontario", CountryCode: "CA"},
			{ID: 6, Code: "SP", ISO3166_2: "BR-SP", Name: "São Paulo", CountryCode: "BR"},
		},
		Cities: []City{
			{Code: "austin", Name: "Austin", CountryCode: "US", StateCode: "TX", CountryID: 1, StateID: 2,
				CountryName: "United States", StateName: "Texas", Population: 961855,
				Latitude: coord(30.2672), Longitude: coord(-97.7431)},
			{Code: "houston", Name: "Houston", CountryCode: "US", StateCode: "TX", CountryID: 1, StateID: 2,
				CountryName: "United States", StateName: "Texas", Population: 2304580,
				Latitude: coord(29.7604), Longitude: coord(-95.3698)},
			{Code: "los-angeles", Name: "Los Angeles", CountryCode: "US", StateCode: "CA", CountryID: 1, StateID: 1,
				CountryName: "United States", StateName: "California", Population: 3898747,
				Latitude: coord(34.0522), Longitude: coord(-118.2437)},
			{Code: "san-francisco", Name: "San Francisco", CountryCode: "US", StateCode: "CA", CountryID: 1, StateID: 1,
				CountryName: "United States", StateName: "California", Population: 873965,
				Latitude: coord(37.7749), Longitude: coord(-122.4194)},
			{Code: "new-york-city", Name: "New York City", CountryCode: "US", StateCode: "NY", CountryID: 1, StateID: 3,
				CountryName: "United States", StateName: "New York", Population: 8336817,
				Latitude: coord(40.7128), Longitude: coord(-74.0060)},
			{Code: "washington", Name: "Washington", CountryCode: "US", StateCode: "DC", CountryID: 1, StateID: 4,
				CountryName: "United States", StateName: "District of Columbia", Population: 689545,
				Latitude: coord(38.9072), Longitude: coord(-77.0369)},
			// State 99 is not in the States table.
			{Code: "rio-de-janeiro", Name: "Rio de Janeiro", CountryCode: "BR", StateCode: "RJ", CountryID: 3, StateID: 99,
				CountryName: "Brazil", StateName: "Rio de Janeiro", Population: 6748000,
				Latitude: coord(-22.9068), Longitude: coord(-43.1729)},
			{Code: "rio-de-janeero", Name: "Rio de Janeero", CountryCode: "PT", CountryID: 4,
				CountryName: "Portugal", Population: 1200},
			{Code: "sao-paulo", Name: "São Paulo", CountryCode: "BR", StateCode: "SP", CountryID: 3, StateID: 6,
				CountryName: "Brazil", StateName: "São Paulo", Population: 12325000,
				Latitude: coord(-23.5505), Longitude: coord(-46.6333)},
			{Code: "lisbon", Name: "Lisbon", CountryCode: "PT", CountryID: 4,
				CountryName: "Portugal", Population: 544851,
				Latitude: coord(38.7223), Longitude: coord(-9.1393)},
			{Code: "paris", Name: "Paris", CountryCode: "FR", CountryID: 6,
				CountryName: "France", Population: 2161000,
				Latitude: coord(48.8566), Longitude: coord(2.3522)},
			{Code: "toronto", Name: "Toronto", CountryCode: "CA", StateCode: "ON", CountryID: 5, StateID: 5,
				CountryName: "Canada", StateName: "Ontario", Population: 2794356,
				Latitude: coord(43.6532), Longitude: coord(-79.3832)},
			{Code: "london", Name: "London", CountryCode: "GB", CountryID: 2,
				CountryName: "United Kingdom", Population: 8982000,
				Latitude: coord(51.5074), Longitude: coord(-0.1278)},
			{Code: "london-on", Name: "London", CountryCode: "CA", StateCode: "ON", CountryID: 5, StateID: 5,
				CountryName: "Canada", StateName: "Ontario", Population: 383822,
				Latitude: coord(42.9849), Longitude: coord(-81.2453)},
			{Code: "paris-tx", Name: "Paris", CountryCode: "US", StateCode: "TX", CountryID: 1, StateID: 2,
				CountryName: "United States", StateName: "Texas", Population: 25000,
				Latitude: coord(33.6609), Longitude: coord(-95.5555)},
		},
	}
}

func newFixtureStore(t testing.TB) *Store {
	t.Helper()
	s, err := NewStore(fixtureSnapshot())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func newFixtureStandardizer(t testing.TB, opts ...Option) *Standardizer {
	t.Helper()
	std, err := New(newFixtureStore(t), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return std
}

func strPtr(s string) *string { return &s }
