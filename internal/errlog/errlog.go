// Package errlog is the diagnostic sink: failed operations append one
// line each to a plain-text log file for later inspection. Writes are
// fire-and-forget; a sink that cannot write stays silent rather than
// disturbing the operation that reported the failure.
package errlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/scholartools/shrew/internal/engine"
)

// Logger appends diagnostic reports to a file. Implements engine.Sink.
type Logger struct {
	mu   sync.Mutex
	path string
}

// New creates a Logger writing to path. The parent directory is created
// lazily on first write.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Record appends one report line. Never returns anything: persistence
// failures here must not affect the reporting operation.
func (l *Logger) Record(r engine.Report) {
	line := format(r, time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprint(f, line)
}

// format renders a report as one comma-separated line. Empty fields are
// dropped rather than leaving dangling separators.
func format(r engine.Report, now time.Time) string {
	parts := []string{now.Format("2006-01-02 15:04:05")}
	for _, p := range []string{r.Method, r.Message, r.Err, r.DOI} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if r.RefIndex > 0 && r.CitingDOI != "" {
		parts = append(parts, fmt.Sprintf("Reference number %d of paper with doi %s", r.RefIndex, r.CitingDOI))
	}
	return strings.Join(parts, ", ") + "\n\n"
}
