package domain

import "math"

const (
	// referenceElevation is the elevation at which terrain contributes no risk.
	referenceElevation = 230.0
	elevationWeight    = 2.0
	rainWeight         = 2.0
	maxRiskScore       = 200.0

	highRiskThreshold     = 140.0
	elevatedRiskThreshold = 90.0
)

// ComputeRisk maps a site's elevation and the current rainfall intensity to a
// risk score clamped above at 200. There is no lower bound.
func ComputeRisk(elevation, rainMMPerHr float64) float64 {
	base := (referenceElevation - elevation) * elevationWeight
	rainImpact := rainMMPerHr * rainWeight
	return math.Min(base+rainImpact, maxRiskScore)
}

// ClassifyRisk groups a risk score into a display band.
func ClassifyRisk(score float64) RiskBand {
	switch {
	case score > highRiskThreshold:
		return RiskBandHigh
	case score > elevatedRiskThreshold:
		return RiskBandElevated
	default:
		return RiskBandNormal
	}
}

// AssessSites scores every site independently against the same rainfall snapshot.
// The result preserves registry order.
func AssessSites(sites []Site, rainMMPerHr float64) []SiteRisk {
	out := make([]SiteRisk, 0, len(sites))
	for _, s := range sites {
		score := ComputeRisk(s.Elevation, rainMMPerHr)
		out = append(out, SiteRisk{Site: s, Score: score, Band: ClassifyRisk(score)})
	}
	return out
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Round2 rounds v to two decimal places, the precision of every published reading.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}
