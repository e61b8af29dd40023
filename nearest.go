package geostd

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"
)

// s2CellLevel is the granularity of the coordinate index. Level 10 cells
// are roughly 10km across at the equator.
const s2CellLevel = 10

// maxNearestDistance is ~100km in radians on the unit sphere.
const maxNearestDistance = 0.0157

// buildCellIndex buckets every city with coordinates by its S2 cell.
func (s *Store) buildCellIndex() {
	s.cellIndex = make(map[s2.CellID][]int)
	for i, c := range s.cities {
		if !c.HasCoordinates() {
			continue
		}
		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(*c.Latitude, *c.Longitude)).Parent(s2CellLevel)
		s.cellIndex[cell] = append(s.cellIndex[cell], i)
	}
}

// cellAndNeighbors returns the given cell plus its edge and corner
// neighbors.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edge := cell.EdgeNeighbors()
	cells = append(cells, edge[:]...)

	seen := make(map[s2.CellID]bool, 9)
	for _, c := range cells {
		seen[c] = true
	}
	for _, e := range edge {
		for _, corner := range e.EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

type nearCandidate struct {
	idx  int
	dist float64
}

// NearestCity returns the snapshot city closest to the coordinates, using
// only coordinates carried by the snapshot. It reports false for invalid
// input, when the surrounding cells hold no city, or when the closest city
// is farther than ~100km.
func (s *Store) NearestCity(lat, lng float64) (City, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) ||
		lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return City{}, false
	}

	query := s2.LatLngFromDegrees(lat, lng)
	cell := s2.CellIDFromLatLng(query).Parent(s2CellLevel)

	var candidates []nearCandidate
	for _, c := range cellAndNeighbors(cell) {
		for _, idx := range s.cellIndex[c] {
			city := s.cities[idx]
			ll := s2.LatLngFromDegrees(*city.Latitude, *city.Longitude)
			candidates = append(candidates, nearCandidate{idx: idx, dist: float64(query.Distance(ll))})
		}
	}
	if len(candidates) == 0 {
		return City{}, false
	}

	// Distance, then population (desc), then load order.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if pa, pb := s.cities[a.idx].Population, s.cities[b.idx].Population; pa != pb {
			return pa > pb
		}
		return a.idx < b.idx
	})

	best := candidates[0]
	if best.dist > maxNearestDistance {
		return City{}, false
	}
	return s.cities[best.idx], true
}
