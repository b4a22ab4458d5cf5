// Package motion serializes timed routes into the CSV motion files consumed
// by SDR GPS simulators, and parses them back.
package motion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geobeam/geobeam/internal/route"
)

// ErrFormat is returned when a motion file's contents do not parse; the
// message names the offending row.
var ErrFormat = errors.New("malformed motion file")

// Format selects the row layout of a motion file.
type Format string

const (
	// FormatLLH rows are elapsed,lat,lon,alt in seconds, degrees and meters.
	FormatLLH Format = "llh"
	// FormatECEF rows are elapsed,x,y,z in seconds and WGS84 geocentric
	// meters, the user-motion layout bladeGPS and gps-sdr-sim accept.
	FormatECEF Format = "ecef"
)

// Row precision: times to a millisecond, angles to ~1.1 mm of ground
// resolution, meters to a millimeter.
const (
	timeDecimals  = 3
	angleDecimals = 8
	meterDecimals = 3
)

// ParseFormat resolves a format name from config or flags. An empty name
// selects the default LLH layout.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", string(FormatLLH):
		return FormatLLH, nil
	case string(FormatECEF):
		return FormatECEF, nil
	default:
		return "", fmt.Errorf("%w: unknown motion format %q", route.ErrInvalidParameter, name)
	}
}
