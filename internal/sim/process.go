package sim

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/geobeam/geobeam/pkg/gps"
)

const (
	quitGracePeriod = 2 * time.Second
	termGracePeriod = 2 * time.Second
	killGracePeriod = 1 * time.Second
)

// Params carries the flags handed to the simulator executable.
type Params struct {
	// Location is the fixed position, used when MotionFile is empty.
	Location gps.Location `json:"location"`
	// MotionFile selects dynamic mode when set.
	MotionFile string `json:"motionFile,omitempty"`
	// RunDuration in seconds; 0 runs until stopped.
	RunDuration int `json:"runDuration,omitempty"`
	// Gain in dB, passed through when nonzero.
	Gain float64 `json:"gain,omitempty"`
	// EphemerisFile optionally pins the RINEX navigation file.
	EphemerisFile string `json:"ephemerisFile,omitempty"`
}

// Args builds the simulator argument list. The simulator clock always starts
// at the current time.
func (p Params) Args() []string {
	args := []string{"-T", "now"}
	if p.RunDuration > 0 {
		args = append(args, "-d", strconv.Itoa(p.RunDuration))
	}
	if p.Gain != 0 {
		args = append(args, "-a", strconv.FormatFloat(p.Gain, 'f', -1, 64))
	}
	if p.EphemerisFile != "" {
		args = append(args, "-e", p.EphemerisFile)
	}
	if p.MotionFile != "" {
		args = append(args, "-u", p.MotionFile)
	} else {
		args = append(args, "-l", p.Location.String())
	}
	return args
}

// Process supervises one running simulator instance.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	done  chan struct{}

	mu  sync.Mutex
	err error
}

// Start launches the simulator command with the given params. The
// simulator's output goes straight to the terminal.
func Start(command string, p Params) (*Process, error) {
	cmd := exec.Command(command, p.Args()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open simulator stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start simulator: %w", err)
	}

	proc := &Process{
		cmd:   cmd,
		stdin: stdin,
		done:  make(chan struct{}),
	}

	go func() {
		err := cmd.Wait()
		proc.mu.Lock()
		proc.err = err
		proc.mu.Unlock()
		close(proc.done)
	}()

	return proc, nil
}

// Done returns a channel that closes when the simulator exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns the exit error once Done is closed.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Running reports whether the simulator is still alive.
func (p *Process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the simulator exits on its own.
func (p *Process) Wait() error {
	<-p.done
	return p.Err()
}

// Stop ends the simulator, escalating from the interactive quit keystroke
// through SIGTERM to SIGKILL. Stopping an already-dead process is a no-op.
func (p *Process) Stop() error {
	if !p.Running() {
		return nil
	}

	// The simulator quits cleanly on a 'q' keystroke.
	_, _ = io.WriteString(p.stdin, "q\n")
	select {
	case <-p.done:
		return nil
	case <-time.After(quitGracePeriod):
	}

	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.done:
		return nil
	case <-time.After(termGracePeriod):
	}

	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill simulator: %w", err)
	}
	select {
	case <-p.done:
		return nil
	case <-time.After(killGracePeriod):
		return fmt.Errorf("simulator did not exit after SIGKILL")
	}
}
