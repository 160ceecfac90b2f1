// Package features infers manufacturing features from a geometry summary.
// Detection is heuristic, driven by bounding-box and volume/area ratios; it
// is an approximation, not boundary-representation analysis.
package features

// Type identifies a manufacturing feature kind.
type Type string

const (
	TypeHole     Type = "hole"
	TypeThread   Type = "thread"
	TypePocket   Type = "pocket"
	TypeBoss     Type = "boss"
	TypeUndercut Type = "undercut"
	TypeThinWall Type = "thin_wall"
)

// Location is a feature position in part coordinates (mm).
type Location struct {
	Position [3]float64 `json:"position"`
}

// Dimensions holds whichever measurements apply to a feature kind.
type Dimensions struct {
	Diameter float64 `json:"diameter,omitempty"`
	Depth    float64 `json:"depth,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Length   float64 `json:"length,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
}

// Properties describes one inferred feature.
type Properties struct {
	// Type is the feature kind
	Type Type `json:"type"`

	// Location is the synthesized position
	Location Location `json:"location"`

	// Dimensions are the synthesized measurements
	Dimensions Dimensions `json:"dimensions"`

	// MaterialRemoval is the removed stock volume in mm³
	MaterialRemoval float64 `json:"material_removal"`

	// MachiningDifficulty is a 1-10 complexity score
	MachiningDifficulty float64 `json:"machining_difficulty"`

	// DFMIssues tags manufacturability concerns on this feature
	DFMIssues []string `json:"dfm_issues,omitempty"`
}

// Summary aggregates an extraction run.
type Summary struct {
	// TotalFeatures is the number of inferred features
	TotalFeatures int `json:"total_features"`

	// FeatureCounts maps feature type to count
	FeatureCounts map[Type]int `json:"feature_counts"`

	// TotalMaterialRemoval is the summed removal volume in mm³
	TotalMaterialRemoval float64 `json:"total_material_removal"`

	// ComplexityScore is the overall part complexity, clamped to [1,10]
	ComplexityScore float64 `json:"complexity_score"`

	// DFMViolations lists deduplicated "<severity>: <message>" strings
	DFMViolations []string `json:"dfm_violations"`
}

// Metadata describes how an extraction was produced.
type Metadata struct {
	Method           string  `json:"method"`
	ConfidenceScore  float64 `json:"confidence_score"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
	Version          string  `json:"version"`
}

// ExtractionResult is the full output of one extraction run. It is
// recomputed on every pricing call and never persisted by this subsystem.
type ExtractionResult struct {
	Features []Properties `json:"features"`
	Summary  Summary      `json:"summary"`
	Metadata Metadata     `json:"metadata"`
}

// Severity grades a DFM rule.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DFMRule flags a feature configuration that is hard or infeasible to make.
type DFMRule struct {
	FeatureType Type
	Condition   func(f *Properties) bool
	Severity    Severity
	Message     string
}

// DFMRules is the fixed rule table evaluated against every inferred feature.
var DFMRules = []DFMRule{
	{
		FeatureType: TypeHole,
		Condition:   func(f *Properties) bool { return f.Dimensions.Diameter < 1.0 },
		Severity:    SeverityError,
		Message:     "Hole diameter too small for standard drills",
	},
	{
		FeatureType: TypeHole,
		Condition: func(f *Properties) bool {
			d := f.Dimensions.Diameter
			if d <= 0 {
				d = 1
			}
			return f.Dimensions.Depth/d > 10
		},
		Severity: SeverityWarning,
		Message:  "Deep hole (depth:diameter ratio > 10:1)",
	},
	{
		FeatureType: TypeThinWall,
		Condition:   func(f *Properties) bool { return f.Dimensions.Height < 0.5 },
		Severity:    SeverityError,
		Message:     "Wall thickness too thin for machining",
	},
	{
		FeatureType: TypeThinWall,
		Condition:   func(f *Properties) bool { return f.Dimensions.Height >= 0.5 && f.Dimensions.Height < 1.0 },
		Severity:    SeverityWarning,
		Message:     "Wall thickness under 1mm requires reduced cutting forces",
	},
	{
		FeatureType: TypeThread,
		Condition:   func(f *Properties) bool { return f.Dimensions.Diameter < 3.0 },
		Severity:    SeverityWarning,
		Message:     "Small diameter thread may be difficult to machine",
	},
	{
		FeatureType: TypeUndercut,
		Condition:   func(f *Properties) bool { return true },
		Severity:    SeverityWarning,
		Message:     "Undercut feature detected",
	},
	{
		FeatureType: TypeBoss,
		Condition: func(f *Properties) bool {
			h := f.Dimensions.Height
			if h <= 0 {
				h = 1
			}
			return f.Dimensions.Diameter/h < 1.5
		},
		Severity: SeverityInfo,
		Message:  "Boss may be prone to vibration during machining",
	},
}
