package analysis

import "strings"

// Analysis modes. Quick trades coverage for latency; exhaustive chases
// secondary locations too.
const (
	ModeQuick      = "quick"
	ModeStandard   = "standard"
	ModeExhaustive = "exhaustive"
)

const systemInstruction = `You are a Senior Geospatial AI Architect specializing in disaster response and infrastructure analysis.
You must perform exhaustive entity extraction and geospatial mapping.
Every city, town, or infrastructure site mentioned in the document must be represented on the map.
Ensure variety in severity levels based on the document's narrative.
Always return valid, parseable JSON. Never include markdown formatting.`

const basePrompt = `Perform an exhaustive multimodal geospatial intelligence analysis.

CORE OBJECTIVE:
Identify and map EVERY SINGLE location, facility, or region mentioned in the document.
Do NOT only focus on critical areas.

REQUIREMENTS:
1. Summary: A professional briefing (3-4 sentences) covering the key findings.
2. Indicators: Extract specific risk or status indicators as actionable insights.
3. Entities: Identify ALL key organizations (ORG), locations (LOC), technical terms (TECH), damage types (DMG), and urgency levels (URG).
4. Risk Score: Overall assessment from 0-100 based on severity of findings.
5. Geospatial:
   - Map EVERY mentioned city, site, or infrastructure location.
   - Categorize each location into "High", "Medium", or "Low" severity based on its status in the text.
   - "High": Direct damage, critical failure, or emergency status.
   - "Medium": Anomalies, thermal variants, or suspected disruption.
   - "Low": Operational status, monitoring zones, or general mentions.
   - For each location, generate an organic polygon with 8-12 vertices around the exact coordinates.

OUTPUT FORMAT: STRICT JSON ONLY. No markdown, no code blocks, just raw JSON.
{
  "summary": "string",
  "riskScore": number,
  "entities": [{"text": "string", "label": "ORG|LOC|TECH|DMG|URG"}],
  "indicators": ["string"],
  "geospatialData": {
    "type": "FeatureCollection",
    "features": [
      {
        "type": "Feature",
        "geometry": { "type": "Polygon", "coordinates": [[[lng, lat], [lng, lat], ...]] },
        "properties": {
          "name": "Location Name",
          "confidence": "XX%",
          "severity": "High|Medium|Low",
          "description": "Why this severity was assigned"
        }
      }
    ]
  }
}`

// AnalysisPrompt returns the user prompt for the given mode. Unknown modes
// get the standard prompt.
func AnalysisPrompt(mode string) string {
	switch mode {
	case ModeQuick:
		p := strings.ReplaceAll(basePrompt, "EVERY SINGLE", "key")
		return strings.ReplaceAll(p, "8-12 vertices", "4-6 vertices")
	case ModeExhaustive:
		return basePrompt + "\n\nADDITIONAL: Include secondary locations, nearby regions, and supply chain connections."
	default:
		return basePrompt
	}
}
