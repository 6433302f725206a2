package sinks_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"emberforge/core/logging"
	"emberforge/core/logging/sinks"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		out = append(out, line)
	}
	return out
}

func TestJSONWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := sinks.NewJSON(&buf, 0)

	events := []logging.Event{
		{Type: "combat.damage", Tick: 4, Time: time.Now(), Severity: logging.SeverityInfo, Category: logging.CategoryCombat},
		{Type: "status.applied", Tick: 5, Time: time.Now(), Severity: logging.SeverityInfo, Category: logging.CategoryStatus},
	}
	for _, event := range events {
		if err := sink.Write(event); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0]["type"] != "combat.damage" || lines[0]["tick"] != float64(4) {
		t.Fatalf("first line = %v, want combat.damage at tick 4", lines[0])
	}
	if lines[1]["type"] != "status.applied" {
		t.Fatalf("second line = %v, want status.applied", lines[1])
	}
}

func TestJSONCloseFlushesBufferedEvents(t *testing.T) {
	var buf bytes.Buffer
	sink := sinks.NewJSON(&buf, time.Hour)

	event := logging.Event{Type: "combat.kill", Tick: 9, Time: time.Now(), Severity: logging.SeverityInfo}
	if err := sink.Write(event); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("event visible before flush, %d bytes", buf.Len())
	}

	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["type"] != "combat.kill" {
		t.Fatalf("lines = %v, want the buffered kill event", lines)
	}

	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
