package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

const (
	defaultCameraFeeds     = "normal=assets/normal.jpg,flooded=assets/flood.jpg,heavy=assets/warning.jpg"
	defaultMonitorSchedule = "@every 1m"
	monitorDisabled        = "off"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Rainfall source configuration. The API key is handed to the rainfall
	// source explicitly; nothing below config reads the environment.
	OpenWeatherAPIKey string
	WeatherCity       string
	WeatherTimeout    time.Duration
	RainfallMode      domain.RainfallMode
	ManualRainfall    float64

	// Camera verification configuration.
	CameraFeed            string
	CameraFeeds           domain.CameraFeeds
	VisionFixturesEnabled bool

	SitesFile string

	// MonitorSchedule is a cron spec; empty disables scheduled cycles.
	MonitorSchedule string

	// Alert publishing configuration.
	KafkaBrokers    []string
	KafkaEnabled    bool
	KafkaAlertTopic string

	// Mapbox site geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	rainfallMode, err := parseRainfallMode(apiKey)
	if err != nil {
		return nil, err
	}

	manualRainfall, err := parseManualRainfall()
	if err != nil {
		return nil, err
	}

	feeds, err := ParseCameraFeeds(sharedcfg.EnvOrDefault("CAMERA_FEEDS", defaultCameraFeeds))
	if err != nil {
		return nil, err
	}

	schedule, err := parseMonitorSchedule()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenWeatherAPIKey: apiKey,
		WeatherCity:       sharedcfg.EnvOrDefault("WEATHER_CITY", "Delhi"),
		WeatherTimeout:    weatherTimeout,
		RainfallMode:      rainfallMode,
		ManualRainfall:    manualRainfall,

		CameraFeed:            sharedcfg.EnvOrDefault("CAMERA_FEED", "normal"),
		CameraFeeds:           feeds,
		VisionFixturesEnabled: sharedcfg.EnvOrDefault("VISION_FIXTURES_ENABLED", "true") == "true",

		SitesFile:       os.Getenv("SITES_FILE"),
		MonitorSchedule: schedule,

		KafkaBrokers:    brokers,
		KafkaEnabled:    kafkaEnabled,
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "flood-alerts"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if _, err := cfg.CameraFeeds.Resolve(cfg.CameraFeed); err != nil {
		return nil, fmt.Errorf("CAMERA_FEED: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// ParseCameraFeeds parses "name=path,name=path" into a feed registry.
func ParseCameraFeeds(s string) (domain.CameraFeeds, error) {
	feeds := domain.CameraFeeds{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, path, ok := strings.Cut(pair, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid CAMERA_FEEDS entry %q", pair)
		}
		feeds[name] = path
	}
	if len(feeds) == 0 {
		return nil, errors.New("CAMERA_FEEDS is required")
	}
	return feeds, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseRainfallMode(apiKey string) (domain.RainfallMode, error) {
	v := os.Getenv("RAINFALL_MODE")
	if v == "" {
		if apiKey != "" {
			return domain.RainfallLive, nil
		}
		return domain.RainfallManual, nil
	}
	mode, err := domain.ParseRainfallMode(v)
	if err != nil {
		return "", fmt.Errorf("RAINFALL_MODE: %w", err)
	}
	return mode, nil
}

func parseManualRainfall() (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MANUAL_RAINFALL", "20"), 64)
	if err != nil {
		return 0, errors.New("invalid MANUAL_RAINFALL")
	}
	if err := domain.ValidateManualRainfall(v); err != nil {
		return 0, fmt.Errorf("MANUAL_RAINFALL: %w", err)
	}
	return v, nil
}

func parseMonitorSchedule() (string, error) {
	s := strings.TrimSpace(sharedcfg.EnvOrDefault("MONITOR_SCHEDULE", defaultMonitorSchedule))
	if s == "" || s == monitorDisabled {
		return "", nil
	}
	if _, err := cron.ParseStandard(s); err != nil {
		return "", fmt.Errorf("invalid MONITOR_SCHEDULE: %w", err)
	}
	return s, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
