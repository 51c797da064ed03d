// Package render derives everything a map surface needs to draw an analysis
// result: per-region styles, tooltip content, and viewport fitting. It is
// deliberately free of any map library so the derivation is unit-testable;
// a thin binding layer attaches the output to whatever surface renders it.
package render

import "go-disasterai/types"

// Style is the visual treatment of one region.
type Style struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
}

// Base styles are fixed per severity, never per feature.
var (
	styleHigh    = Style{Color: "#dc2626", FillColor: "#ef4444", FillOpacity: 0.35, Weight: 2}
	styleMedium  = Style{Color: "#ea580c", FillColor: "#f97316", FillOpacity: 0.30, Weight: 2}
	styleLow     = Style{Color: "#2563eb", FillColor: "#3b82f6", FillOpacity: 0.25, Weight: 2}
	styleNeutral = Style{Color: "#6b7280", FillColor: "#9ca3af", FillOpacity: 0.20, Weight: 1.5}
)

// StyleFor maps a severity onto its base style. Unknown or absent severities
// get the neutral treatment rather than an error; the payload is
// model-generated and severity is frequently missing.
func StyleFor(severity types.Severity) Style {
	switch severity {
	case types.SeverityHigh:
		return styleHigh
	case types.SeverityMedium:
		return styleMedium
	case types.SeverityLow:
		return styleLow
	default:
		return styleNeutral
	}
}

// HoverStyle emphasizes a base style for the region under the pointer.
// It is derived per region so restyling one never touches the others.
func HoverStyle(base Style) Style {
	base.Weight += 2
	base.FillOpacity += 0.2
	if base.FillOpacity > 0.8 {
		base.FillOpacity = 0.8
	}
	return base
}
