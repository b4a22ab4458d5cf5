package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/geobeam/geobeam/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := config.HistoryConfig{
		Enabled:    true,
		Driver:     "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "history.db"),
	}
	m := NewManager(zerolog.Nop(), cfg)
	require.NoError(t, m.Connect())
	require.NoError(t, m.Setup())
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndQueryRuns(t *testing.T) {
	m := newTestManager(t)

	for i, name := range []string{"first", "second", "third"} {
		err := m.RecordRun(&Run{
			Name:        name,
			Kind:        "static",
			Latitude:    40.0 + float64(i),
			Longitude:   -73.0,
			RunDuration: 60,
			Gain:        -2,
			StartedAt:   time.Now(),
			EndedAt:     time.Now(),
			ExitReason:  "completed",
		})
		require.NoError(t, err)
	}

	runs, err := m.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].Name, "newest run should come first")
	assert.Equal(t, "second", runs[1].Name)
}

func TestRecordRouteFile(t *testing.T) {
	m := newTestManager(t)

	rf := &RouteFile{
		Path:            "motion/ride.csv",
		Format:          "llh",
		Source:          "gpx",
		SampleCount:     41,
		DurationSeconds: 4.0,
		Frequency:       10,
		Params:          datatypes.JSON([]byte(`{"gpxSourcePath":"ride.gpx"}`)),
	}
	require.NoError(t, m.RecordRouteFile(rf))
	assert.NotZero(t, rf.ID)

	files, err := m.RecentRouteFiles(10)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "motion/ride.csv", files[0].Path)
	assert.Equal(t, 41, files[0].SampleCount)
}

func TestDisabledManagerIsInert(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.HistoryConfig{Enabled: false})
	require.NoError(t, m.Connect())
	assert.False(t, m.IsValid)

	assert.NoError(t, m.Setup())
	assert.NoError(t, m.RecordRun(&Run{Name: "ignored"}))

	runs, err := m.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.HistoryConfig{Enabled: true, Driver: "oracle"})
	err := m.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown history driver "oracle"`)
	assert.False(t, m.IsValid)
}

func TestInMemorySqlite(t *testing.T) {
	cfg := config.HistoryConfig{Enabled: true, Driver: "sqlite"}
	m := NewManager(zerolog.Nop(), cfg)
	require.NoError(t, m.Connect())
	require.NoError(t, m.Setup())
	defer m.Close()

	require.NoError(t, m.RecordRun(&Run{Name: "mem"}))
	runs, err := m.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "mem", runs[0].Name)
}
