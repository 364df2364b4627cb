package domain

import "time"

// Provenance describes where a rainfall reading came from.
type Provenance string

const (
	ProvenanceLive      Provenance = "LIVE"
	ProvenanceFallback  Provenance = "FALLBACK"
	ProvenanceSimulated Provenance = "SIMULATED"
	ProvenanceError     Provenance = "ERROR"
)

// RainfallReading is the rainfall snapshot shared by every site in one cycle.
type RainfallReading struct {
	IntensityMMPerHr float64    `json:"intensity_mm_per_hr"`
	Provenance       Provenance `json:"provenance"`
}

// Site is a monitored low-lying location. Elevation is in site-local units.
type Site struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
	Elevation float64 `json:"elevation" yaml:"elevation"`

	// Address is filled by optional reverse geocoding.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// RiskBand is a coarse grouping of a risk score for operator displays.
type RiskBand string

const (
	RiskBandNormal   RiskBand = "normal"
	RiskBandElevated RiskBand = "elevated"
	RiskBandHigh     RiskBand = "high"
)

// SiteRisk is a site's risk score for the current cycle.
type SiteRisk struct {
	Site  Site     `json:"site"`
	Score float64  `json:"score"`
	Band  RiskBand `json:"band"`
}

// VisionStatus is the camera classifier's verdict for a single frame.
type VisionStatus string

const (
	VisionNoFeed   VisionStatus = "NO_FEED"
	VisionSafe     VisionStatus = "SAFE"
	VisionWarning  VisionStatus = "WARNING"
	VisionCritical VisionStatus = "CRITICAL"
)

// VisionAssessment is the camera classifier output for one frame.
type VisionAssessment struct {
	Status            VisionStatus `json:"status"`
	DepthFt           float64      `json:"depth_ft"`
	OcclusionFraction float64      `json:"occlusion_fraction"`
}

// OcclusionPercent returns the occlusion fraction as a truncated whole percentage.
func (v VisionAssessment) OcclusionPercent() int {
	return int(v.OcclusionFraction * 100)
}

// NoFeed is the assessment for a frame that is missing or cannot be decoded.
var NoFeed = VisionAssessment{Status: VisionNoFeed}

// SystemState is the single authoritative output of a monitoring cycle.
type SystemState string

const (
	StateSafe      SystemState = "SAFE"
	StatePredicted SystemState = "PREDICTED"
	StateWarning   SystemState = "WARNING"
	StateCritical  SystemState = "CRITICAL"
)

// Severity orders states from 0 (SAFE) to 3 (CRITICAL).
func (s SystemState) Severity() int {
	switch s {
	case StatePredicted:
		return 1
	case StateWarning:
		return 2
	case StateCritical:
		return 3
	default:
		return 0
	}
}

// Directive returns the operator instruction shown for a state.
func (s SystemState) Directive() string {
	switch s {
	case StateCritical:
		return "VERIFIED FLOOD - DEPLOY PUMPS IMMEDIATELY"
	case StateWarning:
		return "FLOOD DETECTED - PREPARE RESOURCES"
	case StatePredicted:
		return "HIGH RISK - FLOOD LIKELY SOON"
	default:
		return "NO FLOOD DETECTED - NORMAL CONDITIONS"
	}
}

// Assessment is the full result of one monitoring cycle.
type Assessment struct {
	ID          string           `json:"id"`
	State       SystemState      `json:"state"`
	Rule        string           `json:"rule"`
	Directive   string           `json:"directive"`
	Rainfall    RainfallReading  `json:"rainfall"`
	Sites       []SiteRisk       `json:"sites"`
	CameraFeed  string           `json:"camera_feed,omitempty"`
	Vision      VisionAssessment `json:"vision"`
	Distress    bool             `json:"distress"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}
