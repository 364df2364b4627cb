// Package vision classifies fixed-camera frames into flood verdicts using a
// deterministic brightness threshold rule.
package vision

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/disintegration/imaging"
)

// Brightness thresholds on the mean 8-bit luma of a frame. Standing water and
// debris darken the road surface.
const (
	criticalBrightness = 110.0
	warningBrightness  = 150.0
)

// maxFramePixels bounds the decoded size of a frame. Larger frames are
// rejected from their header before any pixel data is decoded.
const maxFramePixels = 4096 * 4096

// Source records which path of the verifier produced an assessment.
type Source string

const (
	SourceFixture Source = "fixture"
	SourcePixels  Source = "pixels"
	SourceNoFeed  Source = "no_feed"
)

// Report is an assessment together with the statistics behind it.
type Report struct {
	Assessment domain.VisionAssessment
	Source     Source

	// Brightness and EdgeDensity are zero unless Source is SourcePixels.
	// EdgeDensity is reported for monitoring and does not affect the verdict.
	Brightness  float64
	EdgeDensity float64
}

// Verifier turns camera frames into vision assessments.
type Verifier struct {
	fixtures FixtureLookup
	logger   *slog.Logger
}

// NewVerifier creates a Verifier. Pass a nil lookup to disable fixture overrides.
func NewVerifier(fixtures FixtureLookup, logger *slog.Logger) *Verifier {
	return &Verifier{fixtures: fixtures, logger: logger}
}

// AnalyzeFile classifies the image at path.
func (v *Verifier) AnalyzeFile(path string) domain.VisionAssessment {
	return v.InspectFile(path).Assessment
}

// AnalyzeBytes classifies an encoded image identified by name.
func (v *Verifier) AnalyzeBytes(name string, data []byte) domain.VisionAssessment {
	return v.InspectBytes(name, data).Assessment
}

// InspectFile classifies the image at path. Fixture markers in the file name
// take precedence; a missing or undecodable file yields NO_FEED.
func (v *Verifier) InspectFile(path string) Report {
	if r, ok := v.lookupFixture(path); ok {
		return r
	}

	if err := checkFrameFile(path); err != nil {
		v.logger.Warn("camera frame rejected", "path", path, "error", err)
		return Report{Assessment: domain.NoFeed, Source: SourceNoFeed}
	}
	img, err := imaging.Open(path)
	if err != nil {
		v.logger.Warn("camera frame unavailable", "path", path, "error", err)
		return Report{Assessment: domain.NoFeed, Source: SourceNoFeed}
	}
	return v.classify(path, img)
}

// InspectBytes classifies an encoded image. The name is only used for the
// fixture lookup and logging.
func (v *Verifier) InspectBytes(name string, data []byte) Report {
	if r, ok := v.lookupFixture(name); ok {
		return r
	}

	if len(data) == 0 {
		return Report{Assessment: domain.NoFeed, Source: SourceNoFeed}
	}
	if err := checkFrameSize(bytes.NewReader(data)); err != nil {
		v.logger.Warn("camera frame rejected", "name", name, "error", err)
		return Report{Assessment: domain.NoFeed, Source: SourceNoFeed}
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		v.logger.Warn("camera frame undecodable", "name", name, "error", err)
		return Report{Assessment: domain.NoFeed, Source: SourceNoFeed}
	}
	return v.classify(name, img)
}

func checkFrameFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return checkFrameSize(f)
}

// checkFrameSize reads only the image header.
func checkFrameSize(r io.Reader) error {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return fmt.Errorf("read frame header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxFramePixels {
		return fmt.Errorf("%s frame %dx%d exceeds %d pixels", format, cfg.Width, cfg.Height, maxFramePixels)
	}
	return nil
}

func (v *Verifier) lookupFixture(name string) (Report, bool) {
	if v.fixtures == nil || name == "" {
		return Report{}, false
	}
	a, ok := v.fixtures.Lookup(name)
	if !ok {
		return Report{}, false
	}
	v.logger.Debug("camera fixture override", "name", name, "status", a.Status)
	return Report{Assessment: round(a), Source: SourceFixture}, true
}

func (v *Verifier) classify(name string, img image.Image) Report {
	gray := toLuma(img)
	brightness := meanBrightness(gray)
	density := edgeDensity(gray)

	v.logger.Debug("camera frame statistics",
		"name", name,
		"width", gray.w,
		"height", gray.h,
		"brightness", brightness,
		"edge_density", density,
	)

	return Report{
		Assessment:  round(classifyBrightness(brightness)),
		Source:      SourcePixels,
		Brightness:  brightness,
		EdgeDensity: density,
	}
}

// classifyBrightness applies the fixed threshold rule.
func classifyBrightness(brightness float64) domain.VisionAssessment {
	switch {
	case brightness < criticalBrightness:
		return domain.VisionAssessment{Status: domain.VisionCritical, DepthFt: 1.8, OcclusionFraction: 0.8}
	case brightness < warningBrightness:
		return domain.VisionAssessment{Status: domain.VisionWarning, DepthFt: 0.6, OcclusionFraction: 0.4}
	default:
		return domain.VisionAssessment{Status: domain.VisionSafe}
	}
}

// toLuma converts an image to a single 8-bit luma plane using the
// ITU-R BT.601 weights applied by imaging.Grayscale.
func toLuma(img image.Image) plane {
	g := imaging.Grayscale(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	p := plane{pix: make([]uint8, w*h), w: w, h: h}
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			p.pix[y*w+x] = row[x*4]
		}
	}
	return p
}

func meanBrightness(p plane) float64 {
	if len(p.pix) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range p.pix {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(p.pix))
}

func round(a domain.VisionAssessment) domain.VisionAssessment {
	a.DepthFt = domain.Round2(a.DepthFt)
	a.OcclusionFraction = domain.Round2(a.OcclusionFraction)
	return a
}
