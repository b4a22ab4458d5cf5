package sim

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobeam/geobeam/pkg/gps"
)

// writeScript creates an executable stand-in for the simulator command.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakesim.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func mustLocation(t *testing.T, lat, lon, alt float64) gps.Location {
	t.Helper()
	loc, err := gps.NewLocationAlt(lat, lon, alt)
	require.NoError(t, err)
	return loc
}

func TestParamsArgs(t *testing.T) {
	t.Run("static minimal", func(t *testing.T) {
		p := Params{Location: mustLocation(t, 40.794195, -73.963177, 0)}
		assert.Equal(t, []string{"-T", "now", "-l", "40.794195,-73.963177,0.0"}, p.Args())
	})

	t.Run("static with duration and gain", func(t *testing.T) {
		p := Params{
			Location:    mustLocation(t, 37.4178134, -122.086011, 3.45),
			RunDuration: 300,
			Gain:        -2,
		}
		assert.Equal(t, []string{
			"-T", "now",
			"-d", "300",
			"-a", "-2",
			"-l", "37.417813,-122.086011,3.5",
		}, p.Args())
	})

	t.Run("dynamic with ephemeris", func(t *testing.T) {
		p := Params{
			MotionFile:    "motion/ride.csv",
			RunDuration:   120,
			Gain:          -2.5,
			EphemerisFile: "ephemeris/brdc2290.25n",
		}
		assert.Equal(t, []string{
			"-T", "now",
			"-d", "120",
			"-a", "-2.5",
			"-e", "ephemeris/brdc2290.25n",
			"-u", "motion/ride.csv",
		}, p.Args())
	})
}

func TestProcess_StopViaQuitKeystroke(t *testing.T) {
	script := writeScript(t, "read line\nexit 0")

	proc, err := Start(script, Params{})
	require.NoError(t, err)
	assert.True(t, proc.Running())

	require.NoError(t, proc.Stop())
	assert.False(t, proc.Running())
	assert.NoError(t, proc.Err())
}

func TestProcess_WaitReturnsExitError(t *testing.T) {
	script := writeScript(t, "exit 7")

	proc, err := Start(script, Params{})
	require.NoError(t, err)

	err = proc.Wait()
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 7, exitErr.ExitCode())
	assert.False(t, proc.Running())
}

func TestProcess_StopEscalatesToSigterm(t *testing.T) {
	// Ignores stdin, dies on SIGTERM.
	script := writeScript(t, "trap 'exit 0' TERM\nwhile true; do sleep 0.1; done")

	proc, err := Start(script, Params{})
	require.NoError(t, err)

	require.NoError(t, proc.Stop())
	assert.False(t, proc.Running())
}

func TestProcess_StopEscalatesToSigkill(t *testing.T) {
	// Ignores stdin and SIGTERM.
	script := writeScript(t, "trap '' TERM\nwhile true; do sleep 0.1; done")

	proc, err := Start(script, Params{})
	require.NoError(t, err)

	require.NoError(t, proc.Stop())
	assert.False(t, proc.Running())
}

func TestProcess_StopAfterExitIsNoop(t *testing.T) {
	script := writeScript(t, "exit 0")

	proc, err := Start(script, Params{})
	require.NoError(t, err)
	require.NoError(t, proc.Wait())

	assert.NoError(t, proc.Stop())
}

func TestStart_MissingCommand(t *testing.T) {
	_, err := Start(filepath.Join(t.TempDir(), "does-not-exist"), Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start simulator")
}
