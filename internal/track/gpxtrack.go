package track

import (
	"fmt"
	"sort"

	"github.com/geobeam/geobeam/internal/gpx"
	"github.com/geobeam/geobeam/pkg/gps"
)

// GPXTrack is a recorded trace addressed by seconds since its first point.
type GPXTrack struct {
	points []gpx.Point
	// offsets[i] is points[i].Time as seconds since points[0].Time;
	// construction guarantees it strictly increases.
	offsets []float64
}

// GPX builds a time-addressed track from parsed points. It requires at least
// two points, every point timestamped, timestamps strictly increasing.
func GPX(points []gpx.Point) (*GPXTrack, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 track points, got %d", ErrInsufficientData, len(points))
	}

	offsets := make([]float64, len(points))
	for i, p := range points {
		if p.Time.IsZero() {
			return nil, fmt.Errorf("%w: point %d has no timestamp", ErrMalformedTrack, i+1)
		}
		if i == 0 {
			continue
		}
		if !p.Time.After(points[i-1].Time) {
			return nil, fmt.Errorf("%w: timestamp at point %d does not increase", ErrMalformedTrack, i+1)
		}
		offsets[i] = p.Time.Sub(points[0].Time).Seconds()
	}

	return &GPXTrack{points: points, offsets: offsets}, nil
}

func (t *GPXTrack) Span() float64 {
	return t.offsets[len(t.offsets)-1]
}

// At returns the position sec seconds into the trace. Latitude, longitude
// and altitude interpolate linearly between the bracketing raw points; the
// boundaries return the recorded points exactly.
func (t *GPXTrack) At(sec float64) gps.Location {
	if sec <= 0 {
		return t.points[0].Location
	}
	last := len(t.offsets) - 1
	if sec >= t.offsets[last] {
		return t.points[last].Location
	}

	i := sort.SearchFloat64s(t.offsets, sec)
	if t.offsets[i] == sec {
		return t.points[i].Location
	}

	a := t.points[i-1].Location
	b := t.points[i].Location
	f := (sec - t.offsets[i-1]) / (t.offsets[i] - t.offsets[i-1])
	return gps.Location{
		Latitude:  a.Latitude + f*(b.Latitude-a.Latitude),
		Longitude: a.Longitude + f*(b.Longitude-a.Longitude),
		Altitude:  a.Altitude + f*(b.Altitude-a.Altitude),
	}
}

func (t *GPXTrack) Start() gps.Location { return t.points[0].Location }

func (t *GPXTrack) End() gps.Location { return t.points[len(t.points)-1].Location }
