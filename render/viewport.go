package render

import (
	"go-disasterai/geo"
	"go-disasterai/types"
)

// Viewport fitting defaults. MaxZoom caps how far the map dives in when a
// collection covers a tiny area.
const (
	DefaultFitPadding = 48
	DefaultMaxZoom    = 12
)

// Viewport describes where the map should animate to.
type Viewport struct {
	Bounds  types.BoundingBox `json:"bounds"`
	Padding int               `json:"padding"`
	MaxZoom int               `json:"maxZoom"`
}

// FitViewport computes the viewport that frames every feature in the
// collection. Degenerate input (no features, malformed geometry) returns
// ok=false; callers skip the fit rather than erroring.
func FitViewport(fc types.FeatureCollection, padding, maxZoom int) (Viewport, bool) {
	box, ok := geo.CollectionBounds(fc)
	if !ok {
		return Viewport{}, false
	}
	if padding <= 0 {
		padding = DefaultFitPadding
	}
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	return Viewport{Bounds: box, Padding: padding, MaxZoom: maxZoom}, true
}

// FitFeature frames a single region, used by the click-to-focus behavior.
func FitFeature(f types.Feature, padding, maxZoom int) (Viewport, bool) {
	box, ok := geo.FeatureBounds(f)
	if !ok {
		return Viewport{}, false
	}
	if padding <= 0 {
		padding = DefaultFitPadding
	}
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	return Viewport{Bounds: box, Padding: padding, MaxZoom: maxZoom}, true
}
