package weather

import (
	"strings"
	"testing"
	"time"
)

func TestParseWithHeader(t *testing.T) {
	input := strings.Join([]string{
		"timestamp,dni,dhi,ghi,temperature,zenith_deg",
		"2023-06-01T10:00:00Z,650.5,90,580,21.5,35",
		"2023-06-01T11:00:00Z,720,95.5,640,23,28.2",
	}, "\n")

	rows, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if !first.When.Equal(time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("bad timestamp: %v", first.When)
	}
	if first.DNI != 650.5 || first.DHI != 90 || first.GHI != 580 {
		t.Errorf("bad irradiance: %+v", first)
	}
	if first.Temperature != 21.5 || first.ZenithDeg != 35 {
		t.Errorf("bad temperature/zenith: %+v", first)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	rows, err := Parse(strings.NewReader("2023-06-01T10:00:00Z,650,90,580,21,35\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad timestamp after header row", "timestamp,dni,dhi,ghi,temperature,zenith_deg\nnot-a-time,1,2,3,4,5\n"},
		{"bad number", "2023-06-01T10:00:00Z,650,oops,580,21,35\n"},
		{"wrong column count", "2023-06-01T10:00:00Z,650,90\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
