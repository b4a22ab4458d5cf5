package route

import (
	"fmt"
	"strconv"
	"strings"
)

// TransportSpeeds maps transport mode names to typical speeds in meters
// per second.
var TransportSpeeds = map[string]float64{
	"walking": 1.4,
	"running": 2.5,
	"biking":  7.0,
}

// ResolveSpeed interprets a speed argument as either a transport mode name
// or a numeric value in meters per second.
func ResolveSpeed(arg string) (float64, error) {
	s := strings.TrimSpace(arg)
	if v, ok := TransportSpeeds[strings.ToLower(s)]; ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: speed %q is neither a number nor a transport mode", ErrInvalidParameter, arg)
	}
	return v, nil
}
