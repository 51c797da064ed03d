package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-disasterai/types"
)

func zone(name string, severity types.Severity, ring [][]float64) types.Feature {
	return types.Feature{
		Type:     "Feature",
		Geometry: types.Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}},
		Properties: types.Properties{
			Name:       name,
			Severity:   severity,
			Confidence: "95%",
		},
	}
}

var (
	chennaiRing   = [][]float64{{80.28, 13.10}, {80.30, 13.11}, {80.31, 13.09}, {80.28, 13.10}}
	bangaloreRing = [][]float64{{77.58, 12.96}, {77.60, 12.98}, {77.62, 12.97}, {77.58, 12.96}}
)

func TestStyleForSeverities(t *testing.T) {
	cases := []struct {
		severity types.Severity
		color    string
	}{
		{types.SeverityHigh, "#dc2626"},
		{types.SeverityMedium, "#ea580c"},
		{types.SeverityLow, "#2563eb"},
		{types.Severity("Catastrophic"), "#6b7280"},
		{types.Severity(""), "#6b7280"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.color, StyleFor(tc.severity).Color, "severity %q", tc.severity)
	}
}

func TestHoverStyleEmphasizes(t *testing.T) {
	base := StyleFor(types.SeverityHigh)
	hover := HoverStyle(base)

	require.Equal(t, base.Weight+2, hover.Weight)
	require.Greater(t, hover.FillOpacity, base.FillOpacity)
	require.LessOrEqual(t, hover.FillOpacity, 0.8)
	// Base style untouched.
	require.Equal(t, StyleFor(types.SeverityHigh), base)
}

func TestTooltipForDefaults(t *testing.T) {
	tip := TooltipFor(types.Properties{})
	require.Equal(t, "Identified Zone", tip.Name)
	require.Equal(t, "98%", tip.Confidence)
	require.True(t, tip.Investigate)

	tip = TooltipFor(types.Properties{Name: "Chennai High-Risk Terminal", Confidence: "99.8%"})
	require.Equal(t, "Chennai High-Risk Terminal", tip.Name)
	require.Equal(t, "99.8%", tip.Confidence)
}

func TestBuildOverlaysEmptyCollection(t *testing.T) {
	ls := BuildOverlays(types.FeatureCollection{})
	require.Empty(t, ls.Overlays)
	require.Nil(t, ls.SelectedOverlay())
}

func TestBuildOverlaysDerivesStyleAndBounds(t *testing.T) {
	fc := types.NewFeatureCollection(
		zone("Chennai", types.SeverityHigh, chennaiRing),
		zone("Bangalore", types.SeverityMedium, bangaloreRing),
	)
	ls := BuildOverlays(fc)

	require.Len(t, ls.Overlays, 2)
	require.Equal(t, styleHigh, ls.Overlays[0].Base)
	require.Equal(t, styleMedium, ls.Overlays[1].Base)
	require.True(t, ls.Overlays[0].HasBounds)
	require.Equal(t, "Chennai", ls.Overlays[0].Tooltip.Name)
}

func TestBuildOverlaysClosesOpenRings(t *testing.T) {
	open := [][]float64{{80.28, 13.10}, {80.30, 13.11}, {80.31, 13.09}}
	ls := BuildOverlays(types.NewFeatureCollection(zone("Open", types.SeverityLow, open)))

	ring := ls.Overlays[0].Feature.Geometry.Coordinates[0]
	require.Equal(t, ring[0], ring[len(ring)-1])
	require.True(t, ls.Overlays[0].HasBounds)
}

func TestHoverIsExclusive(t *testing.T) {
	fc := types.NewFeatureCollection(
		zone("A", types.SeverityHigh, chennaiRing),
		zone("B", types.SeverityLow, bangaloreRing),
	)
	ls := BuildOverlays(fc)

	ls.Hover(0)
	require.Equal(t, HoverStyle(ls.Overlays[0].Base), ls.Overlays[0].CurrentStyle())

	ls.Hover(1)
	require.Equal(t, ls.Overlays[0].Base, ls.Overlays[0].CurrentStyle())
	require.Equal(t, HoverStyle(ls.Overlays[1].Base), ls.Overlays[1].CurrentStyle())

	ls.Unhover(1)
	require.Equal(t, ls.Overlays[1].Base, ls.Overlays[1].CurrentStyle())
}

func TestHoverOutOfRangeIgnored(t *testing.T) {
	ls := BuildOverlays(types.NewFeatureCollection(zone("A", types.SeverityHigh, chennaiRing)))
	ls.Hover(-1)
	ls.Hover(5)
	require.Equal(t, ls.Overlays[0].Base, ls.Overlays[0].CurrentStyle())
}

func TestSelectFramesRegion(t *testing.T) {
	fc := types.NewFeatureCollection(
		zone("A", types.SeverityHigh, chennaiRing),
		zone("B", types.SeverityLow, bangaloreRing),
	)
	ls := BuildOverlays(fc)

	vp, ok := ls.Select(0)
	require.True(t, ok)
	require.Equal(t, DefaultFitPadding, vp.Padding)
	require.Equal(t, DefaultMaxZoom, vp.MaxZoom)
	require.Equal(t, 13.09, vp.Bounds.MinLat)
	require.True(t, ls.Overlays[0].Selected())

	// Selecting another region deselects the first.
	_, ok = ls.Select(1)
	require.True(t, ok)
	require.False(t, ls.Overlays[0].Selected())
	require.Same(t, ls.Overlays[1], ls.SelectedOverlay())

	ls.ClearSelection()
	require.Nil(t, ls.SelectedOverlay())
	require.False(t, ls.Overlays[1].Selected())
}

func TestSelectDegenerateGeometry(t *testing.T) {
	ls := BuildOverlays(types.NewFeatureCollection(types.Feature{Type: "Feature"}))
	_, ok := ls.Select(0)
	require.False(t, ok)
}

func TestInspectOpensDetailWithoutSelecting(t *testing.T) {
	fc := types.NewFeatureCollection(
		zone("A", types.SeverityHigh, chennaiRing),
		zone("B", types.SeverityLow, bangaloreRing),
	)
	ls := BuildOverlays(fc)

	require.Nil(t, ls.Inspected())

	d := ls.Inspect(1)
	require.NotNil(t, d)
	require.Equal(t, "B", d.Name)
	require.Equal(t, DetailSource, d.Source)
	// Inspecting must not trigger the region's click-to-focus selection.
	require.Nil(t, ls.SelectedOverlay())
	require.NotNil(t, ls.Inspected())

	ls.CloseInspect()
	require.Nil(t, ls.Inspected())
	require.Nil(t, ls.SelectedOverlay())
}

func TestInspectOutOfRange(t *testing.T) {
	ls := BuildOverlays(types.NewFeatureCollection(zone("A", types.SeverityHigh, chennaiRing)))
	require.Nil(t, ls.Inspect(3))
	require.Nil(t, ls.Inspected())
}

func TestDetailForDefaults(t *testing.T) {
	d := DetailFor(types.Feature{Type: "Feature"})
	require.Equal(t, "Identified Zone", d.Name)
	require.Equal(t, "98%", d.Confidence)
	require.Equal(t, DetailSource, d.Source)
}

func TestFitViewportCoversCollection(t *testing.T) {
	fc := types.NewFeatureCollection(
		zone("A", types.SeverityHigh, chennaiRing),
		zone("B", types.SeverityLow, bangaloreRing),
	)
	vp, ok := FitViewport(fc, 0, 0)

	require.True(t, ok)
	require.Equal(t, 12.96, vp.Bounds.MinLat)
	require.Equal(t, 13.11, vp.Bounds.MaxLat)
	require.Equal(t, 77.58, vp.Bounds.MinLon)
	require.Equal(t, 80.31, vp.Bounds.MaxLon)
}

func TestFitViewportNothingToFrame(t *testing.T) {
	_, ok := FitViewport(types.FeatureCollection{}, 0, 0)
	require.False(t, ok)
}
