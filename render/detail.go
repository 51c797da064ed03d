package render

import "go-disasterai/types"

// DetailSource is the static attribution line shown under every inspected
// zone.
const DetailSource = "AI Geospatial Analysis"

// Detail is the full-attribute view of one inspected region. It is pure
// display data; building or discarding one has no side effects.
type Detail struct {
	Name        string         `json:"name"`
	Severity    types.Severity `json:"severity"`
	Confidence  string         `json:"confidence"`
	Description string         `json:"description,omitempty"`
	Source      string         `json:"source"`
}

// DetailFor builds the modal content from a feature, with the same defaults
// as the tooltip.
func DetailFor(f types.Feature) Detail {
	tip := TooltipFor(f.Properties)
	return Detail{
		Name:        tip.Name,
		Severity:    tip.Severity,
		Confidence:  tip.Confidence,
		Description: tip.Description,
		Source:      DetailSource,
	}
}

// Inspect opens the detail view for one region. It is intentionally separate
// from Select: the investigate affordance sits inside the tooltip and must
// not trigger the underlying region's click-to-focus. Out-of-range indexes
// return nil.
func (ls *LayerSet) Inspect(i int) *Detail {
	if i < 0 || i >= len(ls.Overlays) {
		return nil
	}
	d := DetailFor(ls.Overlays[i].Feature)
	ls.inspectIdx = i
	return &d
}

// Inspected returns the detail for the currently open modal, or nil when no
// region is being inspected.
func (ls *LayerSet) Inspected() *Detail {
	if ls.inspectIdx < 0 || ls.inspectIdx >= len(ls.Overlays) {
		return nil
	}
	d := DetailFor(ls.Overlays[ls.inspectIdx].Feature)
	return &d
}

// CloseInspect dismisses the modal and drops any selection, returning the
// set to the no-selection state.
func (ls *LayerSet) CloseInspect() {
	ls.inspectIdx = -1
	ls.ClearSelection()
}
