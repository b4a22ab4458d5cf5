package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/geobeam/geobeam/internal/config"
	"github.com/geobeam/geobeam/internal/geo"
	"github.com/geobeam/geobeam/internal/history"
	"github.com/geobeam/geobeam/internal/motion"
	"github.com/geobeam/geobeam/internal/route"
	"github.com/geobeam/geobeam/pkg/gps"
)

var (
	routeStart     string
	routeEnd       string
	routeGpx       string
	routeSpeed     string
	routeFrequency float64
	routeOut       string
	routeFormat    string
	routeGeoJSON   string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Generate a timed motion file from endpoints or a GPX track",
	Long: `route builds a motion file either by walking a great-circle line between
--start and --end at a constant speed, or by resampling a recorded --gpx
track on a fixed interval.`,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeStart, "start", "", `start coordinate "lat,lon[,alt]"`)
	routeCmd.Flags().StringVar(&routeEnd, "end", "", `end coordinate "lat,lon[,alt]"`)
	routeCmd.Flags().StringVar(&routeGpx, "gpx", "", "GPX file to resample")
	routeCmd.Flags().StringVar(&routeSpeed, "speed", "", "ground speed in m/s, or walking, running, biking")
	routeCmd.Flags().Float64Var(&routeFrequency, "frequency", 0, "samples per second (default from config)")
	routeCmd.Flags().StringVarP(&routeOut, "out", "o", "", "output path (default a timestamped file in motionDir)")
	routeCmd.Flags().StringVar(&routeFormat, "format", "", "row format: llh or ecef")
	routeCmd.Flags().StringVar(&routeGeoJSON, "geojson", "", "also export the route as GeoJSON to this path")
	routeCmd.MarkFlagsMutuallyExclusive("gpx", "start")
	routeCmd.MarkFlagsMutuallyExclusive("gpx", "end")
	routeCmd.MarkFlagsMutuallyExclusive("gpx", "speed")
}

func runRoute(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	freq := routeFrequency
	if freq == 0 {
		freq = config.GetFloat64("defaultFrequency")
	}

	format, err := motion.ParseFormat(routeFormat)
	if err != nil {
		return err
	}

	var (
		r      *route.TimedRoute
		source string
		speed  float64
	)
	switch {
	case routeGpx != "":
		source = "gpx"
		r, err = route.FromGPX(routeGpx, freq)
		if err != nil {
			return err
		}
	case routeStart != "" && routeEnd != "":
		source = "endpoints"
		speed = config.GetFloat64("defaultSpeed")
		if routeSpeed != "" {
			speed, err = route.ResolveSpeed(routeSpeed)
			if err != nil {
				return err
			}
		}

		var start, end gps.Location
		start, err = geo.LocationFromString(routeStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err = geo.LocationFromString(routeEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		r, err = route.FromEndpoints(start, end, speed, freq)
		if err != nil {
			return err
		}
	default:
		return errors.New("either --gpx or both --start and --end are required")
	}

	out := routeOut
	if out == "" {
		name := fmt.Sprintf("route_%s.csv", time.Now().Format("20060102_150405"))
		out = filepath.Join(config.GetString("motionDir"), name)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := motion.WriteFormat(r, out, format); err != nil {
		return err
	}
	logger.Info("Motion file written",
		"path", out,
		"samples", r.Len(),
		"duration", fmt.Sprintf("%.3fs", r.Duration()),
		"format", string(format),
	)

	if routeGeoJSON != "" {
		b, err := geo.RouteGeoJSON(r)
		if err != nil {
			return err
		}
		if err := os.WriteFile(routeGeoJSON, b, 0o644); err != nil {
			return fmt.Errorf("writing GeoJSON: %w", err)
		}
		logger.Info("GeoJSON written", "path", routeGeoJSON)
	}

	hist := openHistory(logger)
	defer hist.Close()

	params, _ := json.Marshal(map[string]any{
		"start": routeStart,
		"end":   routeEnd,
		"gpx":   routeGpx,
	})
	err = hist.RecordRouteFile(&history.RouteFile{
		Path:            out,
		Format:          string(format),
		Source:          source,
		SampleCount:     r.Len(),
		DurationSeconds: r.Duration(),
		Frequency:       freq,
		SpeedMps:        speed,
		Params:          datatypes.JSON(params),
	})
	if err != nil {
		logger.Warn("Failed to record route file", "error", err)
	}

	fmt.Println(out)
	return nil
}
