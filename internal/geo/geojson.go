package geo

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/geobeam/geobeam/internal/route"
)

// RouteLineString converts a timed route into an XYZ line string in
// longitude, latitude, altitude order.
func RouteLineString(r *route.TimedRoute) (geom.LineString, error) {
	if r == nil {
		return geom.LineString{}, fmt.Errorf("route needs at least 2 samples to form a line, got none")
	}
	if r.Len() < 2 {
		return geom.LineString{}, fmt.Errorf("route needs at least 2 samples to form a line, got %d", r.Len())
	}

	flat := make([]float64, 0, r.Len()*3)
	for _, s := range r.Samples {
		flat = append(flat, s.Location.Longitude, s.Location.Latitude, s.Location.Altitude)
	}
	seq := geom.NewSequence(flat, geom.DimXYZ)
	return geom.NewLineString(seq), nil
}

// RouteGeoJSON renders the route as a GeoJSON LineString geometry, handy for
// dropping onto a map to inspect a planned path before playing it back.
func RouteGeoJSON(r *route.TimedRoute) ([]byte, error) {
	ls, err := RouteLineString(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ls.AsGeometry())
}
