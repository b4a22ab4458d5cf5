// Package route turns a track into a fixed-frequency timed route, the
// in-memory form of a motion file.
package route

import (
	"errors"

	"github.com/geobeam/geobeam/pkg/gps"
)

// DefaultFrequency is the nominal motion-file sample rate in Hz.
const DefaultFrequency = 10.0

// ErrInvalidParameter is returned for speeds, frequencies or routes that
// cannot produce a valid motion file.
var ErrInvalidParameter = errors.New("invalid parameter")

// Sample is one motion-file row: a position at an elapsed offset in seconds
// from the start of the route.
type Sample struct {
	Elapsed  float64
	Location gps.Location
}

// TimedRoute is a fixed-frequency sampling of a track. The first sample is
// at elapsed 0 on the track's first point; consecutive samples are exactly
// one sampling interval apart except for the last, which may close a shorter
// partial interval so the route ends on the track's final point exactly.
// A built route is never mutated and is safe for concurrent reads.
type TimedRoute struct {
	Samples []Sample
}

func (r *TimedRoute) Len() int {
	return len(r.Samples)
}

// Duration returns the total elapsed seconds covered by the route, 0 for an
// empty route.
func (r *TimedRoute) Duration() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1].Elapsed
}

// Start returns the first sample's location.
func (r *TimedRoute) Start() gps.Location {
	return r.Samples[0].Location
}

// End returns the last sample's location.
func (r *TimedRoute) End() gps.Location {
	return r.Samples[len(r.Samples)-1].Location
}
