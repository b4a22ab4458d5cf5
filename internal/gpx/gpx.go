package gpx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/geobeam/geobeam/pkg/gps"
)

// ErrUnsupportedFile is returned for files that are not GPX documents.
var ErrUnsupportedFile = errors.New("unsupported track file")

// Point is a single recorded track point. A zero Time means the document had
// no <time> element for the point; whether that is acceptable is up to the
// consumer.
type Point struct {
	Location gps.Location
	Time     time.Time
}

// ParseFile reads a .gpx (or .xml) file and returns its track points in
// document order, flattening every track and segment. A point without an
// elevation inherits the previous point's altitude, starting from 0.
func ParseFile(path string) ([]Point, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx", ".xml":
	default:
		return nil, fmt.Errorf("%w: %q is not a .gpx or .xml file", ErrUnsupportedFile, path)
	}

	doc, err := gpxgo.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var points []Point
	altitude := 0.0
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				if p.Elevation.NotNull() {
					altitude = p.Elevation.Value()
				}
				loc, err := gps.NewLocationAlt(p.Latitude, p.Longitude, altitude)
				if err != nil {
					return nil, fmt.Errorf("track point %d: %w", len(points)+1, err)
				}
				points = append(points, Point{Location: loc, Time: p.Timestamp})
			}
		}
	}
	return points, nil
}
