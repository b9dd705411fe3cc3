package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// CSVProvider reads hourly weather from a CSV file with the columns
// timestamp (RFC3339), dni, dhi, ghi, temperature, zenith_deg.
// A header row is detected and skipped.
type CSVProvider struct {
	Path string
}

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) HourlyWeather(year int) ([]Hour, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing weather file %s: %w", p.Path, err)
	}
	return rows, nil
}

// Parse reads hourly weather rows from r.
func Parse(r io.Reader) ([]Hour, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var rows []Hour
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line == 1 && isHeader(rec) {
			continue
		}

		when, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", line, rec[0], err)
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad number %q: %w", line, rec[i+1], err)
			}
			vals[i] = v
		}

		rows = append(rows, Hour{
			When:        when,
			DNI:         vals[0],
			DHI:         vals[1],
			GHI:         vals[2],
			Temperature: vals[3],
			ZenithDeg:   vals[4],
		})
	}

	return rows, nil
}

func isHeader(rec []string) bool {
	_, err := time.Parse(time.RFC3339, rec[0])
	return err != nil
}
