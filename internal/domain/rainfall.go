package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// RainfallMode selects how a cycle obtains its rainfall reading.
type RainfallMode string

const (
	RainfallLive   RainfallMode = "live"
	RainfallManual RainfallMode = "manual"
)

// Manual rainfall bounds accepted at the input boundary, in mm/hr.
const (
	MinManualRainfall = 0.0
	MaxManualRainfall = 150.0
)

// DefaultFetchTimeout bounds a live rainfall fetch.
const DefaultFetchTimeout = 5 * time.Second

var (
	// ErrSourceUnavailable signals that a live rainfall reading could not be
	// obtained. It is never disguised as a zero reading.
	ErrSourceUnavailable = errors.New("rainfall source unavailable")

	// ErrInvalidRainfall rejects a manual value outside the accepted range.
	ErrInvalidRainfall = errors.New("invalid rainfall value")

	// ErrInvalidRainfallMode rejects an unknown rainfall mode.
	ErrInvalidRainfallMode = errors.New("invalid rainfall mode")
)

// RainfallFetcher retrieves the rainfall over the last hour for a city.
// Implementations return an error for network failures, non-2xx responses and
// malformed payloads, and 0 when the service reports no rain.
type RainfallFetcher interface {
	FetchRainfall(ctx context.Context, city, apiKey string) (float64, error)
}

// RainfallSource applies the live/manual/fallback policy around a fetcher.
type RainfallSource struct {
	fetcher RainfallFetcher
	city    string
	timeout time.Duration
}

// NewRainfallSource creates a RainfallSource. A non-positive timeout uses
// DefaultFetchTimeout. A nil fetcher makes every live request fail.
func NewRainfallSource(fetcher RainfallFetcher, city string, timeout time.Duration) *RainfallSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &RainfallSource{fetcher: fetcher, city: city, timeout: timeout}
}

// Resolve produces the rainfall reading for a cycle.
//
// In live mode with an API key the fetcher is called under the source timeout.
// A failed fetch returns a reading with provenance ERROR and an error wrapping
// ErrSourceUnavailable; callers substitute FallbackReading. Manual mode, or live
// mode without a key, returns the manual value as SIMULATED.
func (s *RainfallSource) Resolve(ctx context.Context, mode RainfallMode, apiKey string, manual float64) (RainfallReading, error) {
	if mode != RainfallLive || apiKey == "" {
		return RainfallReading{IntensityMMPerHr: manual, Provenance: ProvenanceSimulated}, nil
	}

	if s.fetcher == nil {
		return RainfallReading{Provenance: ProvenanceError}, fmt.Errorf("%w: no fetcher configured", ErrSourceUnavailable)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rain, err := s.fetcher.FetchRainfall(fetchCtx, s.city, apiKey)
	if err != nil {
		return RainfallReading{Provenance: ProvenanceError}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if math.IsNaN(rain) || math.IsInf(rain, 0) || rain < 0 {
		return RainfallReading{Provenance: ProvenanceError}, fmt.Errorf("%w: malformed rainfall %v", ErrSourceUnavailable, rain)
	}

	return RainfallReading{IntensityMMPerHr: Round2(rain), Provenance: ProvenanceLive}, nil
}

// FallbackReading wraps a manually supplied value used after a failed live fetch.
func FallbackReading(manual float64) RainfallReading {
	return RainfallReading{IntensityMMPerHr: manual, Provenance: ProvenanceFallback}
}

// ParseRainfallMode accepts "live" or "manual" in any case. Empty defaults to manual.
func ParseRainfallMode(s string) (RainfallMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RainfallManual), "simulated":
		return RainfallManual, nil
	case string(RainfallLive):
		return RainfallLive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRainfallMode, s)
	}
}

// ValidateManualRainfall checks a caller-supplied value against the accepted input range.
func ValidateManualRainfall(v float64) error {
	if math.IsNaN(v) || v < MinManualRainfall || v > MaxManualRainfall {
		return fmt.Errorf("%w: %v mm/hr outside [%g, %g]", ErrInvalidRainfall, v, MinManualRainfall, MaxManualRainfall)
	}
	return nil
}
