package track

import (
	"fmt"

	"github.com/geobeam/geobeam/pkg/gps"
)

// EndpointTrack is the great-circle segment from start to end, addressed by
// meters of arc. Length and initial bearing are computed once.
type EndpointTrack struct {
	start   gps.Location
	end     gps.Location
	bearing float64
	length  float64
}

// Endpoints builds the great-circle track between two locations. Both
// locations are validated; equal endpoints yield a zero-span track.
func Endpoints(start, end gps.Location) (*EndpointTrack, error) {
	if _, err := gps.NewLocationAlt(start.Latitude, start.Longitude, start.Altitude); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if _, err := gps.NewLocationAlt(end.Latitude, end.Longitude, end.Altitude); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return &EndpointTrack{
		start:   start,
		end:     end,
		bearing: gps.InitialBearing(start, end),
		length:  gps.Distance(start, end),
	}, nil
}

func (t *EndpointTrack) Span() float64 {
	return t.length
}

// At returns the position s meters along the segment. Altitude interpolates
// linearly between the endpoint altitudes.
func (t *EndpointTrack) At(s float64) gps.Location {
	switch {
	case s <= 0:
		return t.start
	case s >= t.length:
		return t.end
	}
	loc := gps.Destination(t.start, t.bearing, s)
	loc.Altitude = t.start.Altitude + (s/t.length)*(t.end.Altitude-t.start.Altitude)
	return loc
}

func (t *EndpointTrack) Start() gps.Location { return t.start }

func (t *EndpointTrack) End() gps.Location { return t.end }
