// Package memory keeps the agent's append-only learning journal. Each
// line records one analysis outcome so later runs can build on earlier
// findings without re-deriving them.
package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrResetNotConfirmed is returned when Reset is called without an
// explicit confirmation.
var ErrResetNotConfirmed = errors.New("memory reset requires confirmation")

// Log is a line-oriented memory file shared by agent runs.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a Log backed by the file at path. The file is created
// lazily on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Entry is one structured memory line before formatting.
type Entry struct {
	Reference string
	Findings  []string
	NextStep  string
}

// Format renders the entry as a single memory line. At most three
// findings make it into the line; the rest are dropped to keep entries
// scannable.
func (e Entry) Format(ts time.Time) string {
	findings := "none"
	if len(e.Findings) > 0 {
		kept := e.Findings
		if len(kept) > 3 {
			kept = kept[:3]
		}
		findings = strings.Join(kept, ", ")
	}
	next := e.NextStep
	if next == "" {
		next = "continue monitoring"
	}
	return fmt.Sprintf("%s | %s | Findings: %s | Next: %s",
		ts.UTC().Format("2006-01-02 15:04"), e.Reference, findings, next)
}

// Append writes one entry to the end of the memory file.
func (l *Log) Append(e Entry) error {
	return l.AppendLine(e.Format(time.Now()))
}

// AppendLine writes a pre-formatted line to the end of the memory file.
// Embedded newlines are flattened so one call is always one line.
func (l *Log) AppendLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line = strings.TrimSpace(strings.ReplaceAll(line, "\n", " "))
	if line == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating memory directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening memory file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing memory line: %w", err)
	}
	return nil
}

// ReadRecent returns up to limit of the newest memory lines, oldest
// first. A missing file yields an empty slice.
func (l *Log) ReadRecent(limit int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading memory file: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

// Count returns the number of memory lines stored.
func (l *Log) Count() (int, error) {
	lines, err := l.ReadRecent(0)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Reset clears the memory file. The caller must pass confirm=true;
// anything else is an error so a stray call can never wipe history.
func (l *Log) Reset(confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("resetting memory: %w", err)
	}
	return nil
}
