package geo

import "go-disasterai/types"

// FeatureBounds computes the lat/lng extent of one feature's outer ring.
// Malformed or empty geometry yields ok=false; it never panics, since
// upstream payloads are model-generated and arrive in any state of disrepair.
func FeatureBounds(f types.Feature) (types.BoundingBox, bool) {
	if len(f.Geometry.Coordinates) == 0 {
		return types.BoundingBox{}, false
	}
	// A non-closed ring is still usable for bounds; only vertex shape matters.
	ring := f.Geometry.Coordinates[0]

	box := types.BoundingBox{}
	started := false
	for _, v := range ring {
		if len(v) < 2 {
			continue
		}
		lng, lat := v[0], v[1]
		if !started {
			box = types.BoundingBox{MinLat: lat, MaxLat: lat, MinLon: lng, MaxLon: lng}
			started = true
			continue
		}
		box.Extend(lat, lng)
	}
	return box, started
}

// CollectionBounds computes the extent across every feature, skipping any
// whose geometry cannot contribute. ok=false means the viewport fit should
// simply be skipped.
func CollectionBounds(fc types.FeatureCollection) (types.BoundingBox, bool) {
	var box types.BoundingBox
	started := false
	for _, f := range fc.Features {
		fb, ok := FeatureBounds(f)
		if !ok {
			continue
		}
		if !started {
			box = fb
			started = true
			continue
		}
		box.Merge(fb)
	}
	return box, started
}
