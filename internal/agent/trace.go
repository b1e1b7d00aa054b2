package agent

import (
	"fmt"
	"log"
	"os"
	"time"
)

// debugf appends one timestamped line to the agent's debug trace file.
// The trace is append-only and best effort; a broken trace never fails
// an analysis.
func (a *Agent) debugf(format string, args ...any) {
	if a.DebugLogPath == "" {
		return
	}
	f, err := os.OpenFile(a.DebugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("opening agent debug log: %v", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n",
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))
	if _, err := f.WriteString(line); err != nil {
		log.Printf("writing agent debug log: %v", err)
	}
}
