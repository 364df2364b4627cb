// Command genframes writes synthetic camera frames for the default camera
// feeds and a sites file for the reference registry, then checks every frame
// against the pixel classifier with fixture markers disabled.
//
// Usage:
//
//	go run ./cmd/genframes -out assets -sites-out assets/sites.yaml
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/vision"
	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

const (
	frameWidth  = 320
	frameHeight = 240
)

// frameDef describes one synthetic frame: a road surface of the given gray
// level with lane markings, and the verdict the pixel path must produce.
type frameDef struct {
	file    string
	surface uint8
	marking uint8
	want    domain.VisionStatus
}

var frames = []frameDef{
	{file: "normal.jpg", surface: 185, marking: 245, want: domain.VisionSafe},
	{file: "flood.jpg", surface: 128, marking: 150, want: domain.VisionWarning},
	{file: "warning.jpg", surface: 70, marking: 90, want: domain.VisionCritical},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "assets", "directory for generated frames")
	sitesOut := flag.String("sites-out", "", "optional output path for the reference sites YAML")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	verifier := vision.NewVerifier(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	failed := 0
	for _, f := range frames {
		path := filepath.Join(*outDir, f.file)
		if err := imaging.Save(render(f), path, imaging.JPEGQuality(90)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		report := verifier.InspectFile(path)
		status := "ok"
		if report.Assessment.Status != f.want {
			status = fmt.Sprintf("MISMATCH (want %s)", f.want)
			failed++
		}
		log.Printf("%-12s brightness=%6.2f edges=%.4f status=%-8s %s",
			f.file, report.Brightness, report.EdgeDensity, report.Assessment.Status, status)
	}

	if *sitesOut != "" {
		if err := writeSites(*sitesOut, domain.ReferenceSites()); err != nil {
			return fmt.Errorf("writing sites: %w", err)
		}
		log.Printf("wrote sites file: %s", *sitesOut)
	}

	if failed > 0 {
		return fmt.Errorf("%d frame(s) classified differently than intended", failed)
	}
	return nil
}

// render draws a road surface with a dashed center line and two edge lines.
func render(f frameDef) *image.NRGBA {
	img := imaging.New(frameWidth, frameHeight, color.NRGBA{R: f.surface, G: f.surface, B: f.surface, A: 255})
	mark := color.NRGBA{R: f.marking, G: f.marking, B: f.marking, A: 255}

	for y := 0; y < frameHeight; y++ {
		for _, x := range []int{20, 21, frameWidth - 22, frameWidth - 21} {
			img.SetNRGBA(x, y, mark)
		}
		if (y/20)%2 == 0 {
			for x := frameWidth/2 - 2; x < frameWidth/2+2; x++ {
				img.SetNRGBA(x, y, mark)
			}
		}
	}
	return img
}

func writeSites(path string, sites []domain.Site) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(map[string][]domain.Site{"sites": sites})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
