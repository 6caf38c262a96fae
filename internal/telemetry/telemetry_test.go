package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func Test_Record_AppendsOneJSONLinePerEvent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRecorder(&buf)

	events := []Event{
		{Time: 1700000000.5, Latency: 1.23, Mode: "notes", Topic: "mars"},
		{Time: 1700000001.5, Latency: 0.4, Mode: "quiz", Topic: "jupiter"},
	}
	for _, e := range events {
		if err := r.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), buf.String())
	}

	var got Event
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if got != events[0] {
		t.Errorf("line 0: want %+v, got %+v", events[0], got)
	}

	// The wire keys are fixed by the sink contract.
	for _, key := range []string{`"time"`, `"latency"`, `"mode"`, `"topic"`} {
		if !strings.Contains(lines[0], key) {
			t.Errorf("line 0 missing key %s: %s", key, lines[0])
		}
	}
}

func TestRoundLatency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want float64
	}{
		{1234 * time.Millisecond, 1.23},
		{1235 * time.Millisecond, 1.24},
		{time.Second, 1.0},
		{0, 0},
		{7 * time.Millisecond, 0.01},
	}
	for _, tt := range tests {
		if got := RoundLatency(tt.d); got != tt.want {
			t.Errorf("RoundLatency(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestEpochSeconds(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 250000000)
	if got := EpochSeconds(ts); got != 1700000000.25 {
		t.Errorf("EpochSeconds = %v, want 1700000000.25", got)
	}
}
