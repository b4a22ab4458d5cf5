package sim

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/datatypes"

	"github.com/geobeam/geobeam/internal/history"
)

// Dependencies holds all collaborators for the runner.
type Dependencies struct {
	Logger  *slog.Logger
	History *history.Manager
	// Input is the control stream, typically os.Stdin.
	Input io.Reader
	// Interactive enables n/p/q navigation; otherwise the set plays through
	// sequentially.
	Interactive bool
	// EphemerisFile is an optional RINEX navigation file passed to every run.
	EphemerisFile string
}

// control is a runner navigation command.
type control byte

const (
	ctrlNext control = 'n'
	ctrlPrev control = 'p'
	ctrlQuit control = 'q'
)

// metrics bundles the runner's OTel instruments.
type metrics struct {
	started    metric.Int64Counter
	completed  metric.Int64Counter
	runSeconds metric.Float64Histogram
	position   metric.Int64ObservableGauge
}

// Runner executes a simulation set in order, one process at a time.
type Runner struct {
	command string
	sims    []Simulation
	deps    Dependencies
	metrics metrics

	mu        sync.RWMutex
	position  int // 1-based position in the set, 0 when idle
	current   Simulation
	startedAt time.Time
	proc      *Process
}

// Status is a snapshot of the runner state.
type Status struct {
	Position    int // 1-based position in the set, 0 when idle
	Total       int
	Description string
	Running     bool
	StartedAt   time.Time
}

// NewRunner creates a runner for the given simulator command and set.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewRunner(command string, sims []Simulation, deps Dependencies) (*Runner, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := &Runner{
		command: command,
		sims:    sims,
		deps:    deps,
	}

	m := meter()
	var err error

	r.metrics.started, err = m.Int64Counter(
		"sim.runs.started",
		metric.WithDescription("Total simulator runs started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating started counter: %w", err)
	}

	r.metrics.completed, err = m.Int64Counter(
		"sim.runs.completed",
		metric.WithDescription("Total simulator runs ended, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}

	r.metrics.runSeconds, err = m.Float64Histogram(
		"sim.run.seconds",
		metric.WithDescription("Wall-clock duration of simulator runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run duration histogram: %w", err)
	}

	r.metrics.position, err = m.Int64ObservableGauge(
		"sim.set.position",
		metric.WithDescription("Current 1-based position in the simulation set"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating position gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			r.mu.RLock()
			pos := r.position
			r.mu.RUnlock()
			o.ObserveInt64(r.metrics.position, int64(pos))
			return nil
		},
		r.metrics.position,
	)
	if err != nil {
		return nil, fmt.Errorf("registering position callback: %w", err)
	}

	return r, nil
}

// Status returns a snapshot of what the runner is doing.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := Status{
		Position:  r.position,
		Total:     len(r.sims),
		StartedAt: r.startedAt,
	}
	if r.current != nil {
		st.Description = r.current.Describe()
	}
	if r.proc != nil {
		st.Running = r.proc.Running()
	}
	return st
}

func (r *Runner) setActive(proc *Process, position int, s Simulation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proc = proc
	r.position = position
	r.current = s
	r.startedAt = time.Now()
}

func (r *Runner) setIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proc = nil
	r.position = 0
	r.current = nil
}

// readControls turns lines on the input stream into navigation commands.
// Unknown lines are ignored.
func readControls(input io.Reader) <-chan control {
	ch := make(chan control)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
			case "n":
				ch <- ctrlNext
			case "p":
				ch <- ctrlPrev
			case "q":
				ch <- ctrlQuit
			}
		}
	}()
	return ch
}

// Run steps through the simulation set. With an interactive input, n skips to
// the next simulation, p rewinds to the previous one and q quits; navigating
// past either end of the set also quits. Without one, each simulation plays
// until its process exits.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.sims) == 0 {
		return errors.New("simulation set is empty")
	}
	defer r.setIdle()

	var controls <-chan control
	if r.deps.Interactive && r.deps.Input != nil {
		controls = readControls(r.deps.Input)
		r.deps.Logger.Info("Interactive control enabled", "keys", "n=next p=previous q=quit")
	}

	idx := 0
	for idx >= 0 && idx < len(r.sims) {
		s := r.sims[idx]
		r.deps.Logger.Info("Starting simulation",
			"position", idx+1,
			"total", len(r.sims),
			"description", s.Describe(),
		)

		rec := s.RunRecord()
		rec.StartedAt = time.Now()

		params := s.Params()
		if params.EphemerisFile == "" {
			params.EphemerisFile = r.deps.EphemerisFile
		}
		if b, err := json.Marshal(params); err == nil {
			rec.Params = datatypes.JSON(b)
		}

		proc, err := Start(r.command, params)
		if err != nil {
			return fmt.Errorf("starting simulator: %w", err)
		}
		r.setActive(proc, idx+1, s)

		simAttr := attribute.String("simulation", rec.Name)
		r.metrics.started.Add(ctx, 1, metric.WithAttributes(simAttr))

		reason := "completed"
		next := idx + 1

		select {
		case <-proc.Done():
			if err := proc.Err(); err != nil {
				r.deps.Logger.Warn("Simulator exited with error", "error", err)
				reason = "failed"
			}
		case c := <-controls:
			switch c {
			case ctrlNext:
				reason = "skipped"
			case ctrlPrev:
				reason = "skipped"
				next = idx - 1
			case ctrlQuit:
				reason = "quit"
			}
			if err := proc.Stop(); err != nil {
				r.deps.Logger.Error("Failed to stop simulator", "error", err)
			}
		case <-ctx.Done():
			reason = "cancelled"
			if err := proc.Stop(); err != nil {
				r.deps.Logger.Error("Failed to stop simulator", "error", err)
			}
		}

		rec.EndedAt = time.Now()
		rec.ExitReason = reason
		if err := r.deps.History.RecordRun(rec); err != nil {
			r.deps.Logger.Error("Failed to record run", "error", err)
		}

		r.metrics.completed.Add(ctx, 1, metric.WithAttributes(simAttr, attribute.String("reason", reason)))
		r.metrics.runSeconds.Record(ctx, rec.EndedAt.Sub(rec.StartedAt).Seconds(), metric.WithAttributes(simAttr))

		r.deps.Logger.Info("Simulation ended",
			"description", s.Describe(),
			"reason", reason,
			"duration", rec.EndedAt.Sub(rec.StartedAt).Round(time.Millisecond).String(),
		)

		switch reason {
		case "cancelled":
			return ctx.Err()
		case "quit":
			return nil
		}
		idx = next
	}

	return nil
}
