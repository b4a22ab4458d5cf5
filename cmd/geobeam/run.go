package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"

	"github.com/geobeam/geobeam/internal/config"
	"github.com/geobeam/geobeam/internal/ephemeris"
	"github.com/geobeam/geobeam/internal/gpx"
	"github.com/geobeam/geobeam/internal/history"
	"github.com/geobeam/geobeam/internal/motion"
	"github.com/geobeam/geobeam/internal/route"
	"github.com/geobeam/geobeam/internal/sim"
	"github.com/geobeam/geobeam/pkg/gps"
)

var runPrepare bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured simulation set through the simulator",
	Long: `run reads the simulations array from the config file, generates motion
files for dynamic entries that ask for one, and starts the simulator for
each entry in order. On a terminal, n skips forward, p goes back and q
quits the set.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runPrepare, "prepare", false, "generate motion files only, do not start the simulator")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	simsCfg, err := config.Simulations()
	if err != nil {
		return err
	}
	if len(simsCfg) == 0 {
		return errors.New("no simulations configured")
	}

	motionDir := config.GetString("motionDir")
	freq := config.GetFloat64("defaultFrequency")

	hist := openHistory(logger)
	defer hist.Close()

	cache := gpx.NewCache()
	for _, sc := range simsCfg {
		if !sc.Dynamic || !sc.CreateFile {
			continue
		}
		if err := materialize(sc, motionDir, freq, cache, hist, logger); err != nil {
			return fmt.Errorf("preparing %q: %w", sc.Name, err)
		}
	}
	if runPrepare {
		logger.Info("Motion files prepared", "motionDir", motionDir)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ephFile string
	if ephCfg := config.GetEphemerisConfig(); ephCfg.Enabled {
		fetchCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		ephFile, err = ephemeris.New(ephCfg.BaseURL).Ensure(fetchCtx, ephCfg.Dir, time.Now())
		cancel()
		if err != nil {
			logger.Warn("Ephemeris fetch failed, simulator will use its default", "error", err)
			ephFile = ""
		} else {
			logger.Info("Ephemeris ready", "path", ephFile)
		}
	}

	set := make([]sim.Simulation, 0, len(simsCfg))
	for _, sc := range simsCfg {
		s, err := sim.FromConfig(sc, motionDir)
		if err != nil {
			return err
		}
		set = append(set, s)
	}

	runner, err := sim.NewRunner(config.GetString("simulatorCommand"), set, sim.Dependencies{
		Logger:        logger,
		History:       hist,
		Input:         os.Stdin,
		Interactive:   isatty.IsTerminal(os.Stdin.Fd()),
		EphemerisFile: ephFile,
	})
	if err != nil {
		return err
	}

	monitor := sim.NewMonitor(runner, logger, config.GetDuration("statusInterval"))
	if err := monitor.Start(); err != nil {
		return err
	}
	defer monitor.Stop()

	return runner.Run(ctx)
}

// materialize generates the motion file for one dynamic simulation entry.
func materialize(sc config.SimulationConfig, motionDir string, freq float64, cache *gpx.Cache, hist *history.Manager, logger *slog.Logger) error {
	if sc.FileName == "" {
		return errors.New("dynamic entry with createFile needs a fileName")
	}

	format, err := motion.ParseFormat(sc.Format)
	if err != nil {
		return err
	}

	var (
		r      *route.TimedRoute
		source string
		speed  float64
	)
	if sc.GpxSourcePath != "" {
		source = "gpx"
		points, err := cache.Load(sc.GpxSourcePath)
		if err != nil {
			return err
		}
		r, err = route.FromGPXPoints(points, freq)
		if err != nil {
			return err
		}
	} else {
		source = "endpoints"
		speed = sc.Speed

		start, err := gps.NewLocation(sc.StartLatitude, sc.StartLongitude)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		end, err := gps.NewLocation(sc.EndLatitude, sc.EndLongitude)
		if err != nil {
			return fmt.Errorf("end: %w", err)
		}
		r, err = route.FromEndpoints(start, end, speed, freq)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(motionDir, 0o755); err != nil {
		return fmt.Errorf("creating motion directory: %w", err)
	}
	out := filepath.Join(motionDir, sc.FileName)
	if err := motion.WriteFormat(r, out, format); err != nil {
		return err
	}
	logger.Info("Motion file written",
		"simulation", sc.Name,
		"path", out,
		"samples", r.Len(),
		"duration", fmt.Sprintf("%.3fs", r.Duration()),
	)

	params, _ := json.Marshal(sc)
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
	return nil
}
