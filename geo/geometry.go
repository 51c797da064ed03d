package geo

import (
	"math"

	"go-disasterai/types"
)

const earthRadiusKM = 6371.0

// ClosePolygonRing returns a copy of the ring with the first vertex appended
// when the ring is not already closed. Rings that are too short to ever form
// a polygon are returned unchanged.
func ClosePolygonRing(ring [][]float64) [][]float64 {
	if len(ring) < 3 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if len(first) < 2 || len(last) < 2 {
		return ring
	}
	if first[0] == last[0] && first[1] == last[1] {
		return ring
	}
	closed := make([][]float64, 0, len(ring)+1)
	closed = append(closed, ring...)
	closed = append(closed, first)
	return closed
}

// ValidRing reports whether the ring describes a renderable closed polygon:
// at least four vertices, every vertex a [lng, lat] pair inside world bounds,
// first vertex equal to the last.
func ValidRing(ring [][]float64) bool {
	if len(ring) < 4 {
		return false
	}
	for _, v := range ring {
		if len(v) < 2 {
			return false
		}
		if math.Abs(v[0]) > 180 || math.Abs(v[1]) > 90 {
			return false
		}
	}
	first, last := ring[0], ring[len(ring)-1]
	return first[0] == last[0] && first[1] == last[1]
}

// ValidPolygon reports whether a geometry can be rendered as a closed polygon
// after ring normalization.
func ValidPolygon(g types.Geometry) bool {
	if g.Type != "Polygon" || len(g.Coordinates) == 0 {
		return false
	}
	return ValidRing(ClosePolygonRing(g.Coordinates[0]))
}

// NormalizePolygon closes every ring of a polygon geometry in place-copy
// fashion and reports whether the result is valid.
func NormalizePolygon(g types.Geometry) (types.Geometry, bool) {
	if g.Type != "Polygon" || len(g.Coordinates) == 0 {
		return g, false
	}
	out := types.Geometry{Type: g.Type, Coordinates: make([][][]float64, len(g.Coordinates))}
	for i, ring := range g.Coordinates {
		out.Coordinates[i] = ClosePolygonRing(ring)
	}
	return out, ValidRing(out.Coordinates[0])
}

// Centroid returns the vertex average of the outer ring as (lng, lat).
// Degenerate rings yield ok=false.
func Centroid(g types.Geometry) (lng, lat float64, ok bool) {
	if len(g.Coordinates) == 0 || len(g.Coordinates[0]) == 0 {
		return 0, 0, false
	}
	n := 0
	for _, v := range g.Coordinates[0] {
		if len(v) < 2 {
			continue
		}
		lng += v[0]
		lat += v[1]
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return lng / float64(n), lat / float64(n), true
}

// HaversineKm calculates the great-circle distance between two points
// on the earth (specified in decimal degrees).
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180

	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// GeneratePolygon builds an organic-looking closed ring around a center
// point. The jitter is derived from the vertex index so the shape is
// deterministic for a given center and vertex count.
func GeneratePolygon(centerLat, centerLng, radiusKm float64, vertices int) [][]float64 {
	if vertices < 3 {
		vertices = 8
	}
	if radiusKm <= 0 {
		radiusKm = 1.0
	}

	// Rough degrees-per-km at this latitude.
	latStep := radiusKm / 110.574
	lngStep := radiusKm / (111.320 * math.Cos(centerLat*math.Pi/180))

	ring := make([][]float64, 0, vertices+1)
	for i := 0; i < vertices; i++ {
		angle := 2 * math.Pi * float64(i) / float64(vertices)
		// Vary the radius between 70% and 130% so the shape is not a circle.
		wobble := 0.7 + 0.6*math.Abs(math.Sin(float64(i)*2.399))
		ring = append(ring, []float64{
			centerLng + lngStep*wobble*math.Cos(angle),
			centerLat + latStep*wobble*math.Sin(angle),
		})
	}
	ring = append(ring, []float64{ring[0][0], ring[0][1]})
	return ring
}
