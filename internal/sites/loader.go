// Package sites loads the monitored site registry from a YAML file.
package sites

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/flood-sentry/internal/domain"
	"gopkg.in/yaml.v3"
)

type file struct {
	Sites []domain.Site `yaml:"sites"`
}

// Load reads the registry at path. An empty path returns the built-in
// reference sites.
func Load(path string) ([]domain.Site, error) {
	if path == "" {
		return domain.ReferenceSites(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	sites, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sites file %s: %w", path, err)
	}
	return sites, nil
}

// Parse decodes and validates a YAML site registry. Unknown fields are rejected.
func Parse(data []byte) ([]domain.Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode sites: %w", err)
	}
	if len(f.Sites) == 0 {
		return nil, errors.New("no sites defined")
	}

	seen := make(map[string]struct{}, len(f.Sites))
	for i, s := range f.Sites {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("site %d: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("site %q: duplicate name", name)
		}
		seen[name] = struct{}{}
		if !finite(s.Latitude, s.Longitude, s.Elevation) {
			return nil, fmt.Errorf("site %q: coordinates and elevation must be finite", name)
		}
		if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
			return nil, fmt.Errorf("site %q: coordinates out of range", name)
		}
		f.Sites[i].Name = name
	}
	return f.Sites, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
