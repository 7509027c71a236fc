package process

import (
	"bytes"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// StderrTail returns at most the last n lines of stderr, trimmed.
func (r *Result) StderrTail(n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	lines := bytes.Split(bytes.TrimSpace(r.Stderr), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
