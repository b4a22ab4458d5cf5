package gps

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadius is the mean earth radius in meters used for great-circle math.
const EarthRadius = 6371000.0

// coordEpsilon is the tolerance below which two coordinates are the same point.
const coordEpsilon = 1e-9

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Location is a geodetic position: latitude and longitude in decimal degrees,
// altitude in meters. Altitude defaults to 0 and takes no part in
// distance or bearing calculations.
type Location struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// NewLocation validates latitude and longitude and returns a Location at altitude 0.
func NewLocation(lat, lon float64) (Location, error) {
	return NewLocationAlt(lat, lon, 0)
}

// NewLocationAlt validates latitude and longitude and returns a Location at
// the given altitude in meters.
func NewLocationAlt(lat, lon, alt float64) (Location, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("%w: latitude %v not in [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Location{}, fmt.Errorf("%w: longitude %v not in [-180, 180]", ErrInvalidCoordinate, lon)
	}
	return Location{Latitude: lat, Longitude: lon, Altitude: alt}, nil
}

// String formats the location as "lat,lon,alt".
func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.1f", l.Latitude, l.Longitude, l.Altitude)
}

// Equal reports whether both locations coincide within 1e-9 degrees
// (1e-9 meters for altitude).
func (l Location) Equal(other Location) bool {
	return math.Abs(l.Latitude-other.Latitude) < coordEpsilon &&
		math.Abs(l.Longitude-other.Longitude) < coordEpsilon &&
		math.Abs(l.Altitude-other.Altitude) < coordEpsilon
}

// Distance returns the great-circle distance between a and b in meters,
// computed with the haversine formula on the mean-radius sphere. The result
// is symmetric in its arguments and exactly zero when the points coincide
// within 1e-9 degrees.
func Distance(a, b Location) float64 {
	dLat := b.Latitude - a.Latitude
	dLon := b.Longitude - a.Longitude
	if math.Abs(dLat) < coordEpsilon && math.Abs(dLon) < coordEpsilon {
		return 0
	}

	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	h := squaredHalfChord(radians(dLat)) +
		math.Cos(lat1)*math.Cos(lat2)*squaredHalfChord(radians(dLon))
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearing returns the forward azimuth from a toward b in degrees,
// normalized to [0, 360). For coincident points the bearing is 0 by
// convention; callers that care should check Distance first.
func InitialBearing(a, b Location) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// Destination returns the point reached by traveling meters along the great
// circle that leaves origin at the given initial bearing in degrees.
// Longitude is normalized to [-180, 180); altitude is carried over unchanged.
func Destination(origin Location, bearingDeg, meters float64) Location {
	if meters == 0 {
		return origin
	}

	lat1 := radians(origin.Latitude)
	lon1 := radians(origin.Longitude)
	brg := radians(bearingDeg)
	ang := meters / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Location{
		Latitude:  degrees(lat2),
		Longitude: normalizeLon(degrees(lon2)),
		Altitude:  origin.Altitude,
	}
}

// squaredHalfChord is the haversine of an angle in radians.
func squaredHalfChord(rad float64) float64 {
	s := math.Sin(rad / 2)
	return s * s
}

func normalizeLon(lon float64) float64 {
	return math.Mod(lon+540, 360) - 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
