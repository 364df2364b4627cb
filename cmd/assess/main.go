// Command assess runs a single flood assessment cycle and prints the result
// as JSON.
//
// Usage:
//
//	go run ./cmd/assess -mode manual -rain 95 -camera flooded
//	go run ./cmd/assess -mode live -api-key $OPENWEATHER_API_KEY -sms "need help at Minto Bridge"
//	go run ./cmd/assess -image frames/cam3.jpg -sites sites.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/adapter/openweather"
	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/couchcryptid/flood-sentry/internal/pipeline"
	"github.com/couchcryptid/flood-sentry/internal/sites"
	"github.com/couchcryptid/flood-sentry/internal/vision"
	"github.com/joho/godotenv"
)

// imageFeed names the ad-hoc feed created for -image.
const imageFeed = "image"

type options struct {
	mode     string
	rain     float64
	apiKey   string
	city     string
	timeout  time.Duration
	sms      string
	camera   string
	image    string
	sites    string
	fixtures bool
	logLevel string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.mode, "mode", "", "rainfall mode: live or manual (default live when an API key is set)")
	flag.Float64Var(&opts.rain, "rain", 20, "manual rainfall in mm/hr, also the fallback for a failed live fetch")
	flag.StringVar(&opts.apiKey, "api-key", os.Getenv("OPENWEATHER_API_KEY"), "OpenWeatherMap API key")
	flag.StringVar(&opts.city, "city", "Delhi", "city queried for live rainfall")
	flag.DurationVar(&opts.timeout, "timeout", domain.DefaultFetchTimeout, "live rainfall fetch timeout")
	flag.StringVar(&opts.sms, "sms", "", "incoming citizen message")
	flag.StringVar(&opts.camera, "camera", "normal", "camera feed name: "+fmt.Sprint(domain.DefaultCameraFeeds().Names()))
	flag.StringVar(&opts.image, "image", "", "analyze this image file instead of a named camera feed")
	flag.StringVar(&opts.sites, "sites", "", "YAML site registry (default: built-in reference sites)")
	flag.BoolVar(&opts.fixtures, "fixtures", true, "honor demo fixture markers in image names")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "assess: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	logger := observability.NewTextLogger(os.Stderr, opts.logLevel)
	metrics := observability.NewMetrics()

	mode, err := domain.ParseRainfallMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.mode == "" && opts.apiKey != "" {
		mode = domain.RainfallLive
	}

	registry, err := sites.Load(opts.sites)
	if err != nil {
		return err
	}

	feeds := domain.DefaultCameraFeeds()
	camera := opts.camera
	if opts.image != "" {
		feeds = domain.CameraFeeds{imageFeed: opts.image}
		camera = imageFeed
	}

	var fixtures vision.FixtureLookup
	if opts.fixtures {
		fixtures = vision.DemoFixtures()
	}

	evaluator := pipeline.NewEvaluator(
		domain.NewRainfallSource(openweather.NewClient(opts.timeout, metrics, logger), opts.city, opts.timeout),
		vision.NewVerifier(fixtures, logger),
		registry,
		feeds,
		nil,
		logger,
		metrics,
	)

	a, err := evaluator.Evaluate(ctx, pipeline.CycleInput{
		RainfallMode:   mode,
		APIKey:         opts.apiKey,
		ManualRainfall: opts.rain,
		DistressText:   opts.sms,
		CameraFeed:     camera,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
