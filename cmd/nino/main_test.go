package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeSSTCSV writes a 36-month long-format SST file on a [-180,180) grid.
func writeSSTCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("time,lat,lon,value\n")
	start := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 36; i++ {
		tm := start.AddDate(0, i, 0)
		for lat := -10.0; lat <= 10; lat += 5 {
			for lon := -180.0; lon < 180; lon += 10 {
				v := 26 + 2*math.Cos(2*math.Pi*float64(tm.Month())/12) + math.Sin(0.4*float64(i)+lon/40)
				fmt.Fprintf(&b, "%s,%g,%g,%.6f\n", tm.Format("2006-01-02"), lat, lon, v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "sst.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_WritesIndexCSV(t *testing.T) {
	in := writeSSTCSV(t)
	var stdout, stderr bytes.Buffer

	if err := run([]string{"-in", in, "-region", "3.4", "-window", "3"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 37 {
		t.Fatalf("got %d lines, want header + 36 rows", len(lines))
	}
	if lines[0] != "time,value" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2000-01-01," || lines[2] != "2000-02-01," {
		t.Errorf("rows before the window fills should be empty: %q, %q", lines[1], lines[2])
	}
	if strings.HasSuffix(lines[3], ",") {
		t.Errorf("row 3 should carry a value: %q", lines[3])
	}
	if !strings.Contains(stderr.String(), "re-arranging SST") {
		t.Errorf("expected normalization warning on stderr-bound logger, got %q", stderr.String())
	}
}

func TestRun_OutFile(t *testing.T) {
	in := writeSSTCSV(t)
	out := filepath.Join(t.TempDir(), "tni.csv")

	if err := run([]string{"-in", in, "-region", "tni", "-window", "0", "-out", out}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 37 {
		t.Errorf("output has %d lines, want 37", n)
	}
}

func TestRun_Errors(t *testing.T) {
	in := writeSSTCSV(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{}},
		{"unknown region", []string{"-in", in, "-region", "5"}},
		{"negative window", []string{"-in", in, "-window", "-1"}},
		{"missing file", []string{"-in", filepath.Join(t.TempDir(), "none.csv")}},
		{"unknown format", []string{"-in", in, "-format", "grib"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
