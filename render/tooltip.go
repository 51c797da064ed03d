package render

import "go-disasterai/types"

// Tooltip defaults for fields the model left blank.
const (
	defaultZoneName   = "Identified Zone"
	defaultConfidence = "98%"
)

// Tooltip is the hover card content for one region. Investigate marks
// whether the detail affordance should be offered.
type Tooltip struct {
	Name        string         `json:"name"`
	Severity    types.Severity `json:"severity"`
	Confidence  string         `json:"confidence"`
	Description string         `json:"description,omitempty"`
	Investigate bool           `json:"investigate"`
}

// TooltipFor builds tooltip content from a feature's properties, filling
// defaults for absent fields.
func TooltipFor(props types.Properties) Tooltip {
	t := Tooltip{
		Name:        props.Name,
		Severity:    props.Severity,
		Confidence:  props.Confidence,
		Description: props.Description,
		Investigate: true,
	}
	if t.Name == "" {
		t.Name = defaultZoneName
	}
	if t.Confidence == "" {
		t.Confidence = defaultConfidence
	}
	return t
}
