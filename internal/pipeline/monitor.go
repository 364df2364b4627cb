package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/robfig/cron/v3"
)

// CycleEvaluator runs one assessment cycle.
type CycleEvaluator interface {
	Evaluate(ctx context.Context, in CycleInput) (domain.Assessment, error)
}

// Monitor re-evaluates a fixed cycle input on a cron schedule.
type Monitor struct {
	evaluator CycleEvaluator
	input     CycleInput
	schedule  string
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewMonitor creates a Monitor. An empty schedule disables scheduled cycles.
func NewMonitor(e CycleEvaluator, input CycleInput, schedule string, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		evaluator: e,
		input:     input,
		schedule:  schedule,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a scheduled cycle has completed, or
// immediately when scheduling is disabled.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if m.schedule == "" {
		return nil
	}
	if !m.ready.Load() {
		return errors.New("monitor has not completed a cycle yet")
	}
	return nil
}

// Ready reports whether at least one cycle has completed.
func (m *Monitor) Ready() bool {
	return m.ready.Load()
}

// RunCycle evaluates the configured input once.
func (m *Monitor) RunCycle(ctx context.Context) (domain.Assessment, error) {
	a, err := m.evaluator.Evaluate(ctx, m.input)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Error("monitor cycle failed", "error", err)
		}
		return domain.Assessment{}, fmt.Errorf("monitor cycle: %w", err)
	}
	m.recordLatest(a)
	m.ready.Store(true)
	return a, nil
}

var provenances = []domain.Provenance{
	domain.ProvenanceLive,
	domain.ProvenanceFallback,
	domain.ProvenanceSimulated,
	domain.ProvenanceError,
}

// recordLatest publishes the monitored feed's state gauges. Ad-hoc API
// assessments go through the evaluator only and never touch these.
func (m *Monitor) recordLatest(a domain.Assessment) {
	m.metrics.SystemState.Set(float64(a.State.Severity()))
	m.metrics.RainfallIntensity.Set(a.Rainfall.IntensityMMPerHr)
	for _, p := range provenances {
		active := 0.0
		if p == a.Rainfall.Provenance {
			active = 1
		}
		m.metrics.RainfallProvenance.WithLabelValues(string(p)).Set(active)
	}
	for _, s := range a.Sites {
		m.metrics.SiteRiskScore.WithLabelValues(s.Site.Name).Set(s.Score)
	}
}

// Run evaluates one cycle immediately, then one per schedule tick until the
// context is cancelled. Overlapping ticks are skipped.
func (m *Monitor) Run(ctx context.Context) error {
	if m.schedule == "" {
		m.logger.Info("scheduled monitoring disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{m.logger})))
	if _, err := c.AddFunc(m.schedule, func() { _, _ = m.RunCycle(ctx) }); err != nil {
		return fmt.Errorf("schedule monitor %q: %w", m.schedule, err)
	}

	m.logger.Info("monitor started", "schedule", m.schedule, "camera_feed", m.input.CameraFeed)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	_, _ = m.RunCycle(ctx)
	c.Start()

	<-ctx.Done()
	m.logger.Info("monitor stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
