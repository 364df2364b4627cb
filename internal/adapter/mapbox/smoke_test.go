//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ReverseGeocode_ReferenceSites(t *testing.T) {
	c := smokeClient(t)

	for _, s := range domain.ReferenceSites() {
		t.Run(s.Name, func(t *testing.T) {
			place, err := c.ReverseGeocode(context.Background(), s.Latitude, s.Longitude)
			require.NoError(t, err)
			assert.Contains(t, place.Address, "Delhi")
		})
	}
}

func TestSmoke_ReverseGeocode_Ocean(t *testing.T) {
	c := smokeClient(t)

	// Middle of the Indian Ocean: expect no street-level match.
	place, err := c.ReverseGeocode(context.Background(), -20.0, 80.0)
	require.NoError(t, err)
	assert.Empty(t, place.Address)
}
