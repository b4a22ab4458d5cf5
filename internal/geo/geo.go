package geo

import (
	"strconv"
	"strings"

	"github.com/wroge/wgs84"

	"github.com/geobeam/geobeam/pkg/gps"
)

// Geodetic positions are converted to earth-centered earth-fixed meters on
// the WGS84 ellipsoid (not the spherical model used for route math); the
// ECEF motion-file format consumed by bladeGPS expects ellipsoidal values.
var (
	geodeticToECEF = wgs84.LonLat().To(wgs84.XYZ())
	ecefToGeodetic = wgs84.XYZ().To(wgs84.LonLat())
)

// ECEF is an earth-centered earth-fixed position in meters.
type ECEF struct {
	X float64
	Y float64
	Z float64
}

// FromLocation converts a geodetic location to ECEF coordinates.
func FromLocation(loc gps.Location) ECEF {
	x, y, z := geodeticToECEF(loc.Longitude, loc.Latitude, loc.Altitude)
	return ECEF{X: x, Y: y, Z: z}
}

// Location converts the ECEF position back to a geodetic location.
func (e ECEF) Location() gps.Location {
	lon, lat, alt := ecefToGeodetic(e.X, e.Y, e.Z)
	return gps.Location{Latitude: lat, Longitude: lon, Altitude: alt}
}

// LocationFromString parses a "lat,lon" or "lat,lon,alt" string into a
// validated location. Used for coordinate flags and config values.
func LocationFromString(coords string) (gps.Location, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return gps.Location{}, gps.ErrInvalidCoordinate
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return gps.Location{}, gps.ErrInvalidCoordinate
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return gps.Location{}, gps.ErrInvalidCoordinate
	}
	var alt float64
	if len(parts) > 2 {
		alt, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return gps.Location{}, gps.ErrInvalidCoordinate
		}
	}
	return gps.NewLocationAlt(lat, lon, alt)
}
