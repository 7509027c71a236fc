package dag

import "time"

// Decision is what the run driver did, or would do, with a task.
type Decision string

const (
	DecisionExecuted       Decision = "executed"
	DecisionSkipped        Decision = "skipped"
	DecisionFailed         Decision = "failed"
	DecisionWouldRun       Decision = "would-run"
	DecisionWouldSkip      Decision = "would-skip"
	DecisionCannotEvaluate Decision = "cannot-evaluate"
)

// Result holds the outcome of a run. On failure it covers the tasks
// processed up to and including the failing one.
type Result struct {
	RunID    string
	DryRun   bool
	Tasks    []TaskResult
	Duration time.Duration
	// MissingSources lists external inputs found absent during a dry run's
	// pre-flight check.
	MissingSources []string
}

// TaskResult holds the outcome for one task.
type TaskResult struct {
	Name     string
	Decision Decision
	Duration time.Duration
	Err      error
	// Missing lists required files that were absent.
	Missing []string
	// Children holds per-child results when a composite was executed.
	Children []TaskResult
}

// Names returns the names of top-level tasks with decision d, in order.
func (r *Result) Names(d Decision) []string {
	var names []string
	for _, tr := range r.Tasks {
		if tr.Decision == d {
			names = append(names, tr.Name)
		}
	}
	return names
}

// Count returns how many top-level tasks ended with decision d.
func (r *Result) Count(d Decision) int {
	return len(r.Names(d))
}

// Task returns the result for the top-level task called name.
func (r *Result) Task(name string) (TaskResult, bool) {
	for _, tr := range r.Tasks {
		if tr.Name == name {
			return tr, true
		}
	}
	return TaskResult{}, false
}
