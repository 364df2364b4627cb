package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/couchcryptid/flood-sentry/internal/vision"
	"golang.org/x/sync/errgroup"
)

// FrameInspector classifies the camera frame stored at a path.
type FrameInspector interface {
	InspectFile(path string) vision.Report
}

// Publisher delivers an assessment to downstream alerting.
type Publisher interface {
	Publish(ctx context.Context, a domain.Assessment) error
}

// CycleInput carries the already-validated operator inputs for one cycle.
type CycleInput struct {
	RainfallMode   domain.RainfallMode
	APIKey         string
	ManualRainfall float64 // simulated value, or fallback after a failed live fetch
	DistressText   string
	CameraFeed     string
}

// Evaluator runs one assessment cycle: rainfall and camera evidence are
// gathered concurrently, then per-site risk and the state aggregator run on
// the immutable snapshot.
type Evaluator struct {
	rainfall  *domain.RainfallSource
	inspector FrameInspector
	sites     []domain.Site
	feeds     domain.CameraFeeds
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewEvaluator creates an Evaluator. Pass a nil publisher to skip alert publishing.
func NewEvaluator(
	rainfall *domain.RainfallSource,
	inspector FrameInspector,
	sites []domain.Site,
	feeds domain.CameraFeeds,
	publisher Publisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Evaluator {
	return &Evaluator{
		rainfall:  rainfall,
		inspector: inspector,
		sites:     append([]domain.Site(nil), sites...),
		feeds:     feeds,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Sites returns a copy of the site registry.
func (e *Evaluator) Sites() []domain.Site {
	return append([]domain.Site(nil), e.sites...)
}

// Feeds returns the camera feed registry.
func (e *Evaluator) Feeds() domain.CameraFeeds {
	return e.feeds
}

// Evaluate runs a full cycle. It rejects unknown camera feeds and manual values
// outside the accepted range; every other failure degrades to a defined output.
func (e *Evaluator) Evaluate(ctx context.Context, in CycleInput) (domain.Assessment, error) {
	imagePath, err := e.feeds.Resolve(in.CameraFeed)
	if err != nil {
		return domain.Assessment{}, err
	}
	if err := domain.ValidateManualRainfall(in.ManualRainfall); err != nil {
		return domain.Assessment{}, err
	}

	start := time.Now()

	var (
		rain   domain.RainfallReading
		report vision.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.resolveRainfall(gctx, in)
		rain = r
		return err
	})
	g.Go(func() error {
		report = e.inspector.InspectFile(imagePath)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Assessment{}, err
	}

	distress := domain.DetectDistress(in.DistressText)
	a := domain.NewAssessment(rain, e.sites, in.CameraFeed, report.Assessment, distress)

	e.record(a, report, time.Since(start))
	e.logger.Info("cycle evaluated",
		"assessment_id", a.ID,
		"state", a.State,
		"rule", a.Rule,
		"rain_mm_per_hr", a.Rainfall.IntensityMMPerHr,
		"provenance", a.Rainfall.Provenance,
		"camera_feed", a.CameraFeed,
		"vision_status", a.Vision.Status,
		"distress", a.Distress,
	)

	e.publish(ctx, a)
	return a, nil
}

// resolveRainfall substitutes the manual value when a live fetch fails. Only
// cancellation of the caller's context aborts the cycle.
func (e *Evaluator) resolveRainfall(ctx context.Context, in CycleInput) (domain.RainfallReading, error) {
	reading, err := e.rainfall.Resolve(ctx, in.RainfallMode, in.APIKey, in.ManualRainfall)
	if err == nil {
		return reading, nil
	}
	if ctx.Err() != nil {
		return domain.RainfallReading{}, ctx.Err()
	}

	e.logger.Warn("live rainfall unavailable, using fallback value",
		"error", err,
		"fallback_mm_per_hr", in.ManualRainfall,
	)
	e.metrics.RainfallFallbacks.Inc()
	return domain.FallbackReading(in.ManualRainfall), nil
}

func (e *Evaluator) record(a domain.Assessment, report vision.Report, elapsed time.Duration) {
	e.metrics.CyclesEvaluated.WithLabelValues(string(a.State)).Inc()
	e.metrics.CycleDuration.Observe(elapsed.Seconds())

	e.metrics.VisionAssessments.WithLabelValues(string(report.Assessment.Status), string(report.Source)).Inc()
	if report.Source == vision.SourcePixels {
		e.metrics.VisionEdgeDensity.Observe(report.EdgeDensity)
	}

	if a.Distress {
		e.metrics.DistressSignals.Inc()
	}
}

// publish is best-effort: failures are logged and counted, never retried.
func (e *Evaluator) publish(ctx context.Context, a domain.Assessment) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, a); err != nil {
		e.logger.Error("publish assessment failed", "assessment_id", a.ID, "error", err)
		e.metrics.PublishErrors.Inc()
		return
	}
	e.metrics.AlertsPublished.Inc()
}
