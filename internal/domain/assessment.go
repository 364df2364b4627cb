package domain

import "github.com/google/uuid"

// NewAssessment scores the sites, runs the state aggregator, and stamps the
// result with a fresh id and the package clock.
func NewAssessment(rain RainfallReading, sites []Site, cameraFeed string, vision VisionAssessment, distress bool) Assessment {
	state, rule := Evaluate(Signals{
		Distress:    distress,
		Vision:      vision,
		RainMMPerHr: rain.IntensityMMPerHr,
	})

	return Assessment{
		ID:          uuid.NewString(),
		State:       state,
		Rule:        rule,
		Directive:   state.Directive(),
		Rainfall:    rain,
		Sites:       AssessSites(sites, rain.IntensityMMPerHr),
		CameraFeed:  cameraFeed,
		Vision:      vision,
		Distress:    distress,
		EvaluatedAt: Now(),
	}
}
