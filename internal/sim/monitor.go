package sim

import (
	"log/slog"
	"sync"
	"time"
)

// Monitor periodically logs what the runner is doing.
type Monitor struct {
	runner   *Runner
	logger   *slog.Logger
	interval time.Duration

	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewMonitor creates a status monitor for the given runner.
func NewMonitor(runner *Runner, logger *slog.Logger, interval time.Duration) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		runner:   runner,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRunning
}

// Start starts the status monitor goroutine.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			m.isRunning = false
			m.mu.Unlock()
		}()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopChan:
				return
			case <-ticker.C:
				st := m.runner.Status()
				if !st.Running {
					m.logger.Debug("No active simulation")
					continue
				}
				m.logger.Info("Simulation status",
					"position", st.Position,
					"total", st.Total,
					"description", st.Description,
					"uptime", time.Since(st.StartedAt).Round(time.Second).String(),
				)
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isRunning {
		close(m.stopChan)
	}
}
