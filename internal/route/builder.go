package route

import (
	"fmt"
	"math"

	"github.com/geobeam/geobeam/internal/gpx"
	"github.com/geobeam/geobeam/internal/track"
	"github.com/geobeam/geobeam/pkg/gps"
)

// FromEndpoints builds a route along the great circle from start to end,
// traveled at speedMps and sampled at freqHz: one sample every speed/freq
// meters of arc. Total elapsed time is exactly distance/speed. Equal
// endpoints yield a single sample at elapsed 0.
func FromEndpoints(start, end gps.Location, speedMps, freqHz float64) (*TimedRoute, error) {
	if err := checkPositive("speed", speedMps); err != nil {
		return nil, err
	}
	if err := checkPositive("frequency", freqHz); err != nil {
		return nil, err
	}
	src, err := track.Endpoints(start, end)
	if err != nil {
		return nil, err
	}
	return resample(src, speedMps/freqHz, 1/freqHz, 1/speedMps), nil
}

// FromGPX builds a route by resampling the trace in path at freqHz along its
// recorded timeline. Sampling never extends past the final timestamp; the
// route always closes on the final recorded point.
func FromGPX(path string, freqHz float64) (*TimedRoute, error) {
	if err := checkPositive("frequency", freqHz); err != nil {
		return nil, err
	}
	points, err := gpx.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return FromGPXPoints(points, freqHz)
}

// FromGPXPoints is FromGPX for already-parsed track points.
func FromGPXPoints(points []gpx.Point, freqHz float64) (*TimedRoute, error) {
	if err := checkPositive("frequency", freqHz); err != nil {
		return nil, err
	}
	src, err := track.GPX(points)
	if err != nil {
		return nil, err
	}
	return resample(src, 1/freqHz, 1/freqHz, 1), nil
}

// resample walks src in fixed steps of its native unit and stamps each
// sample with elapsed seconds. step positions are computed by
// multiplication, not accumulation, so spacing stays exact over long
// tracks. The final sample is src.At(span) at elapsed span*secondsPerUnit,
// closing whatever partial step remains.
func resample(src track.Source, step, interval, secondsPerUnit float64) *TimedRoute {
	span := src.Span()
	if span == 0 {
		return &TimedRoute{Samples: []Sample{{Elapsed: 0, Location: src.At(0)}}}
	}

	samples := make([]Sample, 0, int(span/step)+2)
	samples = append(samples, Sample{Elapsed: 0, Location: src.At(0)})
	for n := 1; float64(n)*step < span; n++ {
		samples = append(samples, Sample{
			Elapsed:  float64(n) * interval,
			Location: src.At(float64(n) * step),
		})
	}
	samples = append(samples, Sample{
		Elapsed:  span * secondsPerUnit,
		Location: src.At(span),
	})

	return &TimedRoute{Samples: samples}
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}
