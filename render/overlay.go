package render

import (
	"go-disasterai/geo"
	"go-disasterai/types"
)

// Overlay is the fully derived render model for one region: its geometry,
// base style, tooltip content, and interaction state. The binding layer
// reads CurrentStyle() after every state change and restyles only that
// region.
type Overlay struct {
	Index     int               `json:"index"`
	Feature   types.Feature     `json:"feature"`
	Base      Style             `json:"style"`
	Tooltip   Tooltip           `json:"tooltip"`
	Bounds    types.BoundingBox `json:"bounds"`
	HasBounds bool              `json:"hasBounds"`

	hovered  bool
	selected bool
}

// CurrentStyle resolves the style for the overlay's present state.
func (o *Overlay) CurrentStyle() Style {
	if o.hovered {
		return HoverStyle(o.Base)
	}
	return o.Base
}

// Selected reports whether this region is the current selection.
func (o *Overlay) Selected() bool { return o.selected }

// LayerSet holds the overlays for one analysis result and tracks which
// region is hovered or selected. At most one region is emphasized at a time.
type LayerSet struct {
	Overlays []*Overlay

	hoverIdx   int
	selectIdx  int
	inspectIdx int
}

// BuildOverlays derives the full layer set for a collection. Nil or empty
// input produces an empty set; the renderer draws nothing and moves on.
func BuildOverlays(fc types.FeatureCollection) *LayerSet {
	ls := &LayerSet{hoverIdx: -1, selectIdx: -1, inspectIdx: -1}
	for i, f := range fc.Features {
		if norm, ok := geo.NormalizePolygon(f.Geometry); ok {
			f.Geometry = norm
		}
		bounds, hasBounds := geo.FeatureBounds(f)
		ls.Overlays = append(ls.Overlays, &Overlay{
			Index:     i,
			Feature:   f,
			Base:      StyleFor(f.Properties.Severity),
			Tooltip:   TooltipFor(f.Properties),
			Bounds:    bounds,
			HasBounds: hasBounds,
		})
	}
	return ls
}

// Hover emphasizes one region and reverts the previously hovered one.
// Out-of-range indexes are ignored.
func (ls *LayerSet) Hover(i int) {
	if i < 0 || i >= len(ls.Overlays) {
		return
	}
	if ls.hoverIdx >= 0 && ls.hoverIdx != i {
		ls.Overlays[ls.hoverIdx].hovered = false
	}
	ls.Overlays[i].hovered = true
	ls.hoverIdx = i
}

// Unhover reverts the region to its base style.
func (ls *LayerSet) Unhover(i int) {
	if i < 0 || i >= len(ls.Overlays) {
		return
	}
	ls.Overlays[i].hovered = false
	if ls.hoverIdx == i {
		ls.hoverIdx = -1
	}
}

// Select marks one region as the current selection and returns the viewport
// that frames it. Selection is informational; other panels read it. ok=false
// means the region had no usable bounds and the pan/zoom is skipped.
func (ls *LayerSet) Select(i int) (Viewport, bool) {
	if i < 0 || i >= len(ls.Overlays) {
		return Viewport{}, false
	}
	if ls.selectIdx >= 0 && ls.selectIdx != i {
		ls.Overlays[ls.selectIdx].selected = false
	}
	ls.Overlays[i].selected = true
	ls.selectIdx = i

	return FitFeature(ls.Overlays[i].Feature, 0, 0)
}

// SelectedOverlay returns the current selection, or nil.
func (ls *LayerSet) SelectedOverlay() *Overlay {
	if ls.selectIdx < 0 {
		return nil
	}
	return ls.Overlays[ls.selectIdx]
}

// ClearSelection returns the set to no-selection state, as the detail modal
// does when closed.
func (ls *LayerSet) ClearSelection() {
	if ls.selectIdx >= 0 {
		ls.Overlays[ls.selectIdx].selected = false
	}
	ls.selectIdx = -1
}
