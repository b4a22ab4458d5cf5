// Package track provides the raw tracks a timed route is built from: a
// great-circle segment between two endpoints, addressed by arc length, and a
// recorded GPX trace, addressed by elapsed time.
package track

import (
	"errors"

	"github.com/geobeam/geobeam/pkg/gps"
)

// ErrInsufficientData is returned when a track has too few points to follow.
var ErrInsufficientData = errors.New("insufficient track data")

// ErrMalformedTrack is returned when a track's timestamps are missing or do
// not strictly increase.
var ErrMalformedTrack = errors.New("malformed track")

// Source yields positions addressable by progress along the track. Progress
// is measured in the source's native unit: meters of arc for endpoint
// tracks, seconds for GPX tracks.
type Source interface {
	// Span is the total extent of the track in its native unit.
	Span() float64
	// At returns the position at pos in [0, Span()]. The boundaries return
	// the stored first and final points exactly, never a recomputation.
	At(pos float64) gps.Location
}
