package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/pipeline"
	"github.com/couchcryptid/flood-sentry/internal/vision"
)

const (
	maxRequestBytes = 64 << 10
	maxFrameBytes   = 10 << 20
)

// Assessor runs assessment cycles and exposes the registries behind them.
type Assessor interface {
	Evaluate(ctx context.Context, in pipeline.CycleInput) (domain.Assessment, error)
	Sites() []domain.Site
	Feeds() domain.CameraFeeds
}

// FrameInspector classifies an uploaded camera frame.
type FrameInspector interface {
	InspectBytes(name string, data []byte) vision.Report
}

// API serves the /api/v1 routes. Fields omitted from an assessment request
// take their values from defaults.
type API struct {
	assessor Assessor
	frames   FrameInspector
	defaults pipeline.CycleInput
	logger   *slog.Logger
}

// NewAPI creates the assessment API. The API key in defaults is the only one
// used for live fetches; requests cannot supply their own.
func NewAPI(assessor Assessor, frames FrameInspector, defaults pipeline.CycleInput, logger *slog.Logger) *API {
	return &API{assessor: assessor, frames: frames, defaults: defaults, logger: logger}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/sites", a.handleSites)
	mux.HandleFunc("GET /api/v1/feeds", a.handleFeeds)
	mux.HandleFunc("POST /api/v1/assessments", a.handleAssess)
	mux.HandleFunc("POST /api/v1/vision", a.handleVision)
}

type assessmentRequest struct {
	RainfallMode   *string  `json:"rainfall_mode"`
	ManualRainfall *float64 `json:"manual_rainfall_mm_per_hr"`
	SMSText        string   `json:"sms_text"`
	CameraFeed     string   `json:"camera_feed"`
}

type feedResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type visionResponse struct {
	domain.VisionAssessment
	OcclusionPercent int           `json:"occlusion_percent"`
	Source           vision.Source `json:"source"`
}

func (a *API) handleSites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sites": a.assessor.Sites()})
}

func (a *API) handleFeeds(w http.ResponseWriter, _ *http.Request) {
	feeds := a.assessor.Feeds()
	out := make([]feedResponse, 0, len(feeds))
	for _, name := range feeds.Names() {
		out = append(out, feedResponse{Name: name, Path: feeds[name]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"feeds": out})
}

func (a *API) handleAssess(w http.ResponseWriter, r *http.Request) {
	in, err := a.decodeCycleInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.assessor.Evaluate(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrUnknownCameraFeed), errors.Is(err, domain.ErrInvalidRainfall):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		a.logger.Error("assessment request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("assessment failed"))
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (a *API) decodeCycleInput(w http.ResponseWriter, r *http.Request) (pipeline.CycleInput, error) {
	var req assessmentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return pipeline.CycleInput{}, fmt.Errorf("decode request: %w", err)
	}

	in := a.defaults
	in.DistressText = req.SMSText
	if req.RainfallMode != nil {
		mode, err := domain.ParseRainfallMode(*req.RainfallMode)
		if err != nil {
			return pipeline.CycleInput{}, err
		}
		in.RainfallMode = mode
	}
	if req.ManualRainfall != nil {
		in.ManualRainfall = *req.ManualRainfall
	}
	if req.CameraFeed != "" {
		in.CameraFeed = req.CameraFeed
	}
	return in, nil
}

func (a *API) handleVision(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFrameBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("read frame: %w", err))
		return
	}

	report := a.frames.InspectBytes(r.URL.Query().Get("name"), data)
	writeJSON(w, http.StatusOK, visionResponse{
		VisionAssessment: report.Assessment,
		OcclusionPercent: report.Assessment.OcclusionPercent(),
		Source:           report.Source,
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
