package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCameraFeed rejects a camera feed name that is not registered.
var ErrUnknownCameraFeed = errors.New("unknown camera feed")

// CameraFeeds maps a feed name to the image path its camera publishes to.
type CameraFeeds map[string]string

// DefaultCameraFeeds returns the demo feed set. The heavy feed's frame carries
// no fixture marker and is judged on its pixels.
func DefaultCameraFeeds() CameraFeeds {
	return CameraFeeds{
		"normal":  "assets/normal.jpg",
		"flooded": "assets/flood.jpg",
		"heavy":   "assets/warning.jpg",
	}
}

// Resolve returns the image path for a feed name.
func (f CameraFeeds) Resolve(name string) (string, error) {
	path, ok := f[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCameraFeed, name)
	}
	return path, nil
}

// Names returns the registered feed names in sorted order.
func (f CameraFeeds) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
