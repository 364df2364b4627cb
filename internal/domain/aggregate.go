package domain

// predictedRainThreshold is exclusive: exactly 80 mm/hr stays SAFE.
const predictedRainThreshold = 80.0

// Signals are the inputs the state aggregator reconciles.
type Signals struct {
	Distress    bool
	Vision      VisionAssessment
	RainMMPerHr float64
}

// Rule names reported in the decision trace.
const (
	RuleDistress       = "distress"
	RuleVisionCritical = "vision_critical"
	RuleVisionWarning  = "vision_warning"
	RuleRainPredicted  = "rain_predicted"
	RuleDefault        = "default"
)

type stateRule struct {
	name  string
	match func(Signals) bool
	state SystemState
}

// stateRules are evaluated top-down; the first match wins.
var stateRules = []stateRule{
	{
		name:  RuleDistress,
		match: func(s Signals) bool { return s.Distress },
		state: StateCritical,
	},
	{
		name:  RuleVisionCritical,
		match: func(s Signals) bool { return s.Vision.Status == VisionCritical },
		state: StateCritical,
	},
	{
		name:  RuleVisionWarning,
		match: func(s Signals) bool { return s.Vision.Status == VisionWarning },
		state: StateWarning,
	},
	{
		name:  RuleRainPredicted,
		match: func(s Signals) bool { return s.RainMMPerHr > predictedRainThreshold },
		state: StatePredicted,
	},
}

// Evaluate returns the system state for the given signals and the name of the
// rule that produced it.
func Evaluate(s Signals) (SystemState, string) {
	for _, r := range stateRules {
		if r.match(s) {
			return r.state, r.name
		}
	}
	return StateSafe, RuleDefault
}

// Aggregate combines the distress flag, the camera verdict and the rainfall
// intensity into one system state.
func Aggregate(distress bool, vision VisionAssessment, rainMMPerHr float64) SystemState {
	state, _ := Evaluate(Signals{Distress: distress, Vision: vision, RainMMPerHr: rainMMPerHr})
	return state
}
