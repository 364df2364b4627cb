package vision

import (
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flood-sentry/internal/domain"
)

// FixtureLookup resolves known fixture identities to canned assessments,
// bypassing pixel analysis. Production deployments can pass nil to disable it.
type FixtureLookup interface {
	Lookup(name string) (domain.VisionAssessment, bool)
}

// Fixture pairs a reserved marker token with the assessment it forces.
type Fixture struct {
	Marker     string
	Assessment domain.VisionAssessment
}

// MarkerFixtures matches markers against the lower-cased base name of an
// image identity. The first matching marker wins.
type MarkerFixtures []Fixture

// Lookup implements FixtureLookup.
func (m MarkerFixtures) Lookup(name string) (domain.VisionAssessment, bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, f := range m {
		if f.Marker != "" && strings.Contains(base, strings.ToLower(f.Marker)) {
			return f.Assessment, true
		}
	}
	return domain.VisionAssessment{}, false
}

// DemoFixtures returns the reserved markers used by the demo camera feeds.
// "heavy" is checked before "flood" so "heavy_flood.jpg" is CRITICAL.
func DemoFixtures() MarkerFixtures {
	return MarkerFixtures{
		{
			Marker:     "heavy",
			Assessment: domain.VisionAssessment{Status: domain.VisionCritical, DepthFt: 2.5, OcclusionFraction: 0.9},
		},
		{
			Marker:     "flood",
			Assessment: domain.VisionAssessment{Status: domain.VisionWarning, DepthFt: 1.2, OcclusionFraction: 0.6},
		},
	}
}
