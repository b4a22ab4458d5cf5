// Package sim drives the SDR GPS simulator: it launches the external
// simulator process for each configured simulation, steps through the set
// under interactive control and records every run.
package sim

import (
	"fmt"
	"path/filepath"

	"github.com/geobeam/geobeam/internal/config"
	"github.com/geobeam/geobeam/internal/history"
	"github.com/geobeam/geobeam/pkg/gps"
)

// Simulation is one entry of a configured simulation set.
type Simulation interface {
	// Describe returns a short human-readable summary for logs and prompts.
	Describe() string
	// Params builds the simulator invocation parameters.
	Params() Params
	// RunRecord seeds a history row for this simulation.
	RunRecord() *history.Run
}

// Static holds the simulated receiver at a fixed location.
type Static struct {
	Name        string
	Location    gps.Location
	RunDuration int
	Gain        float64
}

func (s Static) Describe() string {
	return fmt.Sprintf("%s: static at %s", s.Name, s.Location)
}

func (s Static) Params() Params {
	return Params{
		Location:    s.Location,
		RunDuration: s.RunDuration,
		Gain:        s.Gain,
	}
}

func (s Static) RunRecord() *history.Run {
	return &history.Run{
		Name:        s.Name,
		Kind:        "static",
		Latitude:    s.Location.Latitude,
		Longitude:   s.Location.Longitude,
		RunDuration: s.RunDuration,
		Gain:        s.Gain,
	}
}

// Dynamic replays a motion file.
type Dynamic struct {
	Name        string
	MotionFile  string
	RunDuration int
	Gain        float64
}

func (d Dynamic) Describe() string {
	return fmt.Sprintf("%s: motion file %s", d.Name, d.MotionFile)
}

func (d Dynamic) Params() Params {
	return Params{
		MotionFile:  d.MotionFile,
		RunDuration: d.RunDuration,
		Gain:        d.Gain,
	}
}

func (d Dynamic) RunRecord() *history.Run {
	return &history.Run{
		Name:        d.Name,
		Kind:        "dynamic",
		MotionFile:  d.MotionFile,
		RunDuration: d.RunDuration,
		Gain:        d.Gain,
	}
}

// FromConfig converts one configured entry into a runnable simulation.
// Dynamic entries resolve their motion file inside motionDir.
func FromConfig(cfg config.SimulationConfig, motionDir string) (Simulation, error) {
	if cfg.Dynamic {
		if cfg.FileName == "" {
			return nil, fmt.Errorf("simulation %q: dynamic entry needs a fileName", cfg.Name)
		}
		return Dynamic{
			Name:        cfg.Name,
			MotionFile:  filepath.Join(motionDir, cfg.FileName),
			RunDuration: cfg.RunDuration,
			Gain:        cfg.Gain,
		}, nil
	}

	loc, err := gps.NewLocation(cfg.Latitude, cfg.Longitude)
	if err != nil {
		return nil, fmt.Errorf("simulation %q: %w", cfg.Name, err)
	}
	return Static{
		Name:        cfg.Name,
		Location:    loc,
		RunDuration: cfg.RunDuration,
		Gain:        cfg.Gain,
	}, nil
}
