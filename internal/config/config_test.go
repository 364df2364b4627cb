package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMapboxToken = "pk.test-token"
	testAPIKey      = "owm-test-key"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "Delhi", cfg.WeatherCity)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, domain.RainfallManual, cfg.RainfallMode)
	assert.InDelta(t, 20.0, cfg.ManualRainfall, 1e-9)

	assert.Equal(t, "normal", cfg.CameraFeed)
	assert.Equal(t, domain.DefaultCameraFeeds(), cfg.CameraFeeds)
	assert.True(t, cfg.VisionFixturesEnabled)

	assert.Empty(t, cfg.SitesFile)
	assert.Equal(t, "@every 1m", cfg.MonitorSchedule)

	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "flood-alerts", cfg.KafkaAlertTopic)

	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OPENWEATHER_API_KEY", testAPIKey)
	t.Setenv("WEATHER_CITY", "Mumbai")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("MANUAL_RAINFALL", "95.5")
	t.Setenv("CAMERA_FEEDS", "gate=/srv/cam/gate.jpg, tunnel=/srv/cam/tunnel.jpg")
	t.Setenv("CAMERA_FEED", "tunnel")
	t.Setenv("VISION_FIXTURES_ENABLED", "false")
	t.Setenv("SITES_FILE", "/etc/flood-sentry/sites.yaml")
	t.Setenv("MONITOR_SCHEDULE", "*/5 * * * *")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "custom-alerts")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testAPIKey, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "Mumbai", cfg.WeatherCity)
	assert.Equal(t, 3*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, domain.RainfallLive, cfg.RainfallMode, "API key implies live mode")
	assert.InDelta(t, 95.5, cfg.ManualRainfall, 1e-9)
	assert.Equal(t, domain.CameraFeeds{"gate": "/srv/cam/gate.jpg", "tunnel": "/srv/cam/tunnel.jpg"}, cfg.CameraFeeds)
	assert.Equal(t, "tunnel", cfg.CameraFeed)
	assert.False(t, cfg.VisionFixturesEnabled)
	assert.Equal(t, "/etc/flood-sentry/sites.yaml", cfg.SitesFile)
	assert.Equal(t, "*/5 * * * *", cfg.MonitorSchedule)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "custom-alerts", cfg.KafkaAlertTopic)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidWeatherTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("WEATHER_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "WEATHER_TIMEOUT")
		})
	}
}

func TestLoad_ExplicitManualModeWithKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", testAPIKey)
	t.Setenv("RAINFALL_MODE", "manual")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.RainfallManual, cfg.RainfallMode)
}

func TestLoad_InvalidRainfallMode(t *testing.T) {
	t.Setenv("RAINFALL_MODE", "radar")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAINFALL_MODE")
}

func TestLoad_ManualRainfallOutOfRange(t *testing.T) {
	for _, v := range []string{"-1", "151", "lots"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("MANUAL_RAINFALL", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MANUAL_RAINFALL")
		})
	}
}

func TestLoad_UnknownCameraFeed(t *testing.T) {
	t.Setenv("CAMERA_FEED", "rooftop")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAMERA_FEED")
	assert.ErrorIs(t, err, domain.ErrUnknownCameraFeed)
}

func TestLoad_InvalidCameraFeeds(t *testing.T) {
	t.Setenv("CAMERA_FEEDS", "normal")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAMERA_FEEDS")
}

func TestLoad_MonitorDisabled(t *testing.T) {
	t.Setenv("MONITOR_SCHEDULE", "off")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.MonitorSchedule)
}

func TestLoad_InvalidMonitorSchedule(t *testing.T) {
	t.Setenv("MONITOR_SCHEDULE", "every so often")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONITOR_SCHEDULE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestParseCameraFeeds(t *testing.T) {
	feeds, err := ParseCameraFeeds("a=1.jpg,,b = 2.jpg ")
	require.NoError(t, err)
	assert.Equal(t, domain.CameraFeeds{"a": "1.jpg", "b": "2.jpg"}, feeds)

	_, err = ParseCameraFeeds("")
	require.Error(t, err)

	_, err = ParseCameraFeeds("=x.jpg")
	require.Error(t, err)
}
