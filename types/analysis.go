package types

// Severity classifies a mapped region. The set is open ended: the model is
// prompted for High/Medium/Low but the renderer must tolerate anything else.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// EntityLabel tags a named entity extracted from a document.
type EntityLabel string

const (
	LabelLocation     EntityLabel = "LOC"
	LabelOrganization EntityLabel = "ORG"
	LabelTech         EntityLabel = "TECH"
	LabelDamage       EntityLabel = "DMG"
	LabelUrgency      EntityLabel = "URG"
	LabelPerson       EntityLabel = "PER"
	LabelDate         EntityLabel = "DATE"
	LabelEvent        EntityLabel = "EVENT"
)

// Entity is a named entity pulled out of the analyzed document.
type Entity struct {
	Text       string      `json:"text" firestore:"text"`
	Label      EntityLabel `json:"label" firestore:"label"`
	StartChar  int         `json:"start_char,omitempty" firestore:"startChar,omitempty"`
	EndChar    int         `json:"end_char,omitempty" firestore:"endChar,omitempty"`
	Confidence float64     `json:"confidence,omitempty" firestore:"confidence,omitempty"`
}

// AnalysisResult is the unit of state driving everything downstream of an
// ingestion: the dashboard, the map overlays, and disaster detection.
// It is immutable once built; a new analysis replaces the whole object.
type AnalysisResult struct {
	TaskID           string            `json:"taskId" firestore:"taskId"`
	DocumentID       string            `json:"documentId" firestore:"documentId"`
	Summary          string            `json:"summary" firestore:"summary"`
	RiskScore        int               `json:"riskScore" firestore:"riskScore"`
	Entities         []Entity          `json:"entities" firestore:"entities"`
	Indicators       []string          `json:"indicators" firestore:"indicators"`
	GeospatialData   FeatureCollection `json:"geospatialData" firestore:"geospatialData"`
	Timestamp        string            `json:"timestamp" firestore:"timestamp"`
	ProcessingTimeMs int64             `json:"processing_time_ms,omitempty" firestore:"processingTimeMs,omitempty"`
	ModelUsed        string            `json:"model_used,omitempty" firestore:"modelUsed,omitempty"`
}

// HighRisk reports whether the score crosses the threshold that flips the
// dashboard into its high-risk color scheme.
func (r AnalysisResult) HighRisk() bool {
	return r.RiskScore >= 75
}

// AnalysisRequest is the payload accepted by the analyze endpoints.
type AnalysisRequest struct {
	DocumentData   string `json:"document_data,omitempty"` // base64
	DocumentURL    string `json:"document_url,omitempty"`
	MimeType       string `json:"mime_type" binding:"required"`
	AnalysisMode   string `json:"analysis_mode,omitempty"` // quick|comprehensive|exhaustive
	IncludeGeocode bool   `json:"include_geocoding,omitempty"`
	MaxLocations   int    `json:"max_locations,omitempty"`
	DocumentName   string `json:"document_name,omitempty"`
}

// AnalysisResponse wraps an AnalysisResult for the HTTP surface.
type AnalysisResponse struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	TaskID  string          `json:"task_id,omitempty"`
}
