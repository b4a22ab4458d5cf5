package motion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/geobeam/geobeam/internal/geo"
	"github.com/geobeam/geobeam/internal/route"
	"github.com/geobeam/geobeam/pkg/gps"
)

// Read parses an LLH motion file back into a timed route.
func Read(path string) (*route.TimedRoute, error) {
	return ReadFormat(path, FormatLLH)
}

// ReadFormat parses a motion file in the given format. Structural problems
// surface as ErrFormat naming the 1-based row index. Elapsed values must
// start at 0 and never decrease; adjacent ties are tolerated because a final
// partial step can print equal at the file's time precision.
func ReadFormat(path string, format Format) (*route.TimedRoute, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open motion file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	var samples []route.Sample
	row := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, row+1, err)
		}
		row++

		if len(record) != 4 {
			return nil, fmt.Errorf("%w: row %d has %d fields, want 4", ErrFormat, row, len(record))
		}
		fields, err := parseFields(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, row, err)
		}

		elapsed := fields[0]
		if row == 1 && elapsed != 0 {
			return nil, fmt.Errorf("%w: row 1 starts at %v seconds, want 0", ErrFormat, elapsed)
		}
		if len(samples) > 0 && elapsed < samples[len(samples)-1].Elapsed {
			return nil, fmt.Errorf("%w: row %d: elapsed %v decreases", ErrFormat, row, elapsed)
		}

		loc, err := rowLocation(fields, format)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrFormat, row, err)
		}
		samples = append(samples, route.Sample{Elapsed: elapsed, Location: loc})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: file has no rows", ErrFormat)
	}

	return &route.TimedRoute{Samples: samples}, nil
}

func parseFields(record []string) ([4]float64, error) {
	var out [4]float64
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return out, fmt.Errorf("field %d %q is not numeric", i+1, field)
		}
		out[i] = v
	}
	return out, nil
}

func rowLocation(fields [4]float64, format Format) (gps.Location, error) {
	if format == FormatECEF {
		return geo.ECEF{X: fields[1], Y: fields[2], Z: fields[3]}.Location(), nil
	}
	return gps.NewLocationAlt(fields[1], fields[2], fields[3])
}
