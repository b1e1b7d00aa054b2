package memory

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "memory.txt"))
}

func TestAppendAndReadRecent(t *testing.T) {
	log := newTestLog(t)
	for i := 0; i < 5; i++ {
		if err := log.AppendLine("line " + string(rune('a'+i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	lines, err := log.ReadRecent(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "line c" || lines[2] != "line e" {
		t.Errorf("expected newest 3 oldest-first, got %v", lines)
	}
}

func TestReadRecentMissingFile(t *testing.T) {
	log := newTestLog(t)
	lines, err := log.ReadRecent(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestAppendFlattensNewlines(t *testing.T) {
	log := newTestLog(t)
	if err := log.AppendLine("first\nsecond"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _ := log.ReadRecent(0)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0] != "first second" {
		t.Errorf("unexpected line %q", lines[0])
	}
}

func TestEntryFormat(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	e := Entry{
		Reference: "https://youtu.be/abc",
		Findings:  []string{"strong hook", "listicle framing"},
		NextStep:  "test shorter titles",
	}
	got := e.Format(ts)
	want := "2026-03-14 09:26 | https://youtu.be/abc | Findings: strong hook, listicle framing | Next: test shorter titles"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEntryFormatCapsFindings(t *testing.T) {
	e := Entry{
		Reference: "batch",
		Findings:  []string{"one", "two", "three", "four"},
	}
	got := e.Format(time.Now())
	if !strings.Contains(got, "Findings: one, two, three |") {
		t.Errorf("expected findings capped at three, got %q", got)
	}
	if strings.Contains(got, "four") {
		t.Errorf("fourth finding should be dropped, got %q", got)
	}
}

func TestEntryFormatDefaults(t *testing.T) {
	got := Entry{Reference: "batch run"}.Format(time.Now())
	if !strings.Contains(got, "Findings: none") {
		t.Errorf("expected empty findings placeholder, got %q", got)
	}
	if !strings.Contains(got, "Next: continue monitoring") {
		t.Errorf("expected default next step, got %q", got)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	log := newTestLog(t)
	log.AppendLine("keep me")

	if err := log.Reset(false); !errors.Is(err, ErrResetNotConfirmed) {
		t.Fatalf("expected ErrResetNotConfirmed, got %v", err)
	}
	lines, _ := log.ReadRecent(0)
	if len(lines) != 1 {
		t.Errorf("expected memory untouched, got %v", lines)
	}

	if err := log.Reset(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _ = log.ReadRecent(0)
	if len(lines) != 0 {
		t.Errorf("expected memory cleared, got %v", lines)
	}
}
