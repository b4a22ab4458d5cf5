package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobeam/geobeam/internal/route"
	"github.com/geobeam/geobeam/pkg/gps"
)

func TestFromLocationKnownPoints(t *testing.T) {
	cases := []struct {
		name string
		loc  gps.Location
		want ECEF
	}{
		{
			"mountain view",
			gps.Location{Latitude: 37.4178134, Longitude: -122.086011, Altitude: 3.45},
			ECEF{X: -2694180.667, Y: -4297222.330, Z: 3854325.576},
		},
		{
			"mountain view below ellipsoid",
			gps.Location{Latitude: 37.4211366, Longitude: -122.0936967, Altitude: -10.0},
			ECEF{X: -2694632.326, Y: -4296661.975, Z: 3854610.329},
		},
		{
			"shanghai",
			gps.Location{Latitude: 31.230441, Longitude: 121.467685, Altitude: 4.5},
			ECEF{X: -2849585.509, Y: 4655993.331, Z: 3287769.376},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromLocation(tc.loc)
			assert.InDelta(t, tc.want.X, got.X, 5e-3)
			assert.InDelta(t, tc.want.Y, got.Y, 5e-3)
			assert.InDelta(t, tc.want.Z, got.Z, 5e-3)

			back := got.Location()
			assert.InDelta(t, tc.loc.Latitude, back.Latitude, 1e-8)
			assert.InDelta(t, tc.loc.Longitude, back.Longitude, 1e-8)
			assert.InDelta(t, tc.loc.Altitude, back.Altitude, 1e-4)
		})
	}
}

func TestLocationFromString(t *testing.T) {
	loc, err := LocationFromString("40.794195,-73.963177")
	require.NoError(t, err)
	assert.Equal(t, 40.794195, loc.Latitude)
	assert.Equal(t, -73.963177, loc.Longitude)
	assert.Equal(t, 0.0, loc.Altitude)

	loc, err = LocationFromString(" 63.17964 , -174.12954 , 4.91 ")
	require.NoError(t, err)
	assert.Equal(t, 4.91, loc.Altitude)
}

func TestLocationFromStringErrors(t *testing.T) {
	for _, input := range []string{"", "40.7", "a,b", "40.7,-73.9,x", "95.0,-73.9"} {
		_, err := LocationFromString(input)
		assert.ErrorIs(t, err, gps.ErrInvalidCoordinate, "input %q", input)
	}
}

func TestRouteGeoJSON(t *testing.T) {
	start := gps.Location{Latitude: 40.794195, Longitude: -73.963177, Altitude: 10}
	end := gps.Location{Latitude: 40.795, Longitude: -73.9635, Altitude: 12}
	r, err := route.FromEndpoints(start, end, 2.7, 10)
	require.NoError(t, err)

	data, err := RouteGeoJSON(r)
	require.NoError(t, err)

	var decoded struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "LineString", decoded.Type)
	require.Len(t, decoded.Coordinates, r.Len())

	first := decoded.Coordinates[0]
	require.Len(t, first, 3)
	assert.InDelta(t, start.Longitude, first[0], 1e-9)
	assert.InDelta(t, start.Latitude, first[1], 1e-9)
	assert.InDelta(t, start.Altitude, first[2], 1e-9)
}

func TestRouteLineStringNeedsTwoSamples(t *testing.T) {
	_, err := RouteLineString(nil)
	assert.Error(t, err)

	single, err := route.FromEndpoints(
		gps.Location{Latitude: 1, Longitude: 2},
		gps.Location{Latitude: 1, Longitude: 2},
		2.7, 10,
	)
	require.NoError(t, err)
	_, err = RouteLineString(single)
	assert.Error(t, err)
}
