package motion

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/geobeam/geobeam/internal/geo"
	"github.com/geobeam/geobeam/internal/route"
)

// Write serializes the route to path in the default LLH format.
func Write(r *route.TimedRoute, path string) error {
	return WriteFormat(r, path, FormatLLH)
}

// WriteFormat serializes the route to path, one sample per row. The write is
// all-or-nothing: rows go to a temp file beside the destination and the temp
// file is renamed over path only after a successful flush, so a failure
// leaves no partial motion file behind.
func WriteFormat(r *route.TimedRoute, path string, format Format) error {
	if r == nil || r.Len() == 0 {
		return fmt.Errorf("%w: refusing to write an empty route", route.ErrInvalidParameter)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp motion file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	for _, s := range r.Samples {
		if err := w.Write(formatRow(s, format)); err != nil {
			return fmt.Errorf("write motion row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush motion rows: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync motion file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close motion file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	committed = true
	return nil
}

func formatRow(s route.Sample, format Format) []string {
	elapsed := strconv.FormatFloat(s.Elapsed, 'f', timeDecimals, 64)
	if format == FormatECEF {
		p := geo.FromLocation(s.Location)
		return []string{elapsed, formatMeters(p.X), formatMeters(p.Y), formatMeters(p.Z)}
	}
	return []string{
		elapsed,
		strconv.FormatFloat(s.Location.Latitude, 'f', angleDecimals, 64),
		strconv.FormatFloat(s.Location.Longitude, 'f', angleDecimals, 64),
		formatMeters(s.Location.Altitude),
	}
}

func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', meterDecimals, 64)
}
