package types

// Geometry is the GeoJSON geometry of a mapped region. Only Polygon is
// produced by the analysis prompt, but the type field is kept open so a
// malformed payload decodes instead of erroring.
type Geometry struct {
	Type        string        `json:"type" firestore:"type"`
	Coordinates [][][]float64 `json:"coordinates" firestore:"coordinates"` // rings of [lng, lat]
}

// Properties carries the descriptive attributes of a region. Every field may
// be absent in an upstream payload; consumers apply their own defaults.
type Properties struct {
	Name        string   `json:"name" firestore:"name"`
	Confidence  string   `json:"confidence,omitempty" firestore:"confidence,omitempty"`
	Severity    Severity `json:"severity,omitempty" firestore:"severity,omitempty"`
	Description string   `json:"description,omitempty" firestore:"description,omitempty"`
	SourceText  string   `json:"source_text,omitempty" firestore:"sourceText,omitempty"`
	Category    string   `json:"category,omitempty" firestore:"category,omitempty"`
}

// Feature is a single named region with a polygon boundary.
type Feature struct {
	Type       string     `json:"type" firestore:"type"`
	Geometry   Geometry   `json:"geometry" firestore:"geometry"`
	Properties Properties `json:"properties" firestore:"properties"`
}

// FeatureCollection is an ordered sequence of regions. The top-level value is
// never nil on a normalized result; an empty upstream collection is replaced
// wholesale by the fixed fallback set.
type FeatureCollection struct {
	Type     string    `json:"type" firestore:"type"`
	Features []Feature `json:"features" firestore:"features"`
}

// NewFeatureCollection builds a collection with the conventional type tags set.
func NewFeatureCollection(features ...Feature) FeatureCollection {
	for i := range features {
		if features[i].Type == "" {
			features[i].Type = "Feature"
		}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// BoundingBox is an axis-aligned lat/lng extent.
type BoundingBox struct {
	MinLat float64 `json:"minLat" firestore:"minLat"`
	MaxLat float64 `json:"maxLat" firestore:"maxLat"`
	MinLon float64 `json:"minLon" firestore:"minLon"`
	MaxLon float64 `json:"maxLon" firestore:"maxLon"`
}

// Extend grows the box to include the point.
func (b *BoundingBox) Extend(lat, lon float64) {
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
}

// Merge grows the box to include another box.
func (b *BoundingBox) Merge(other BoundingBox) {
	b.Extend(other.MinLat, other.MinLon)
	b.Extend(other.MaxLat, other.MaxLon)
}

// Center returns the middle of the box as (lat, lon).
func (b BoundingBox) Center() (float64, float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}
