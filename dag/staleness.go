package dag

import (
	"context"
	"time"

	"github.com/kbukum/fileflow/probe"
)

// footprint is the observed state of a task's files.
type footprint struct {
	missingInputs  []string
	missingOutputs []string
	newestInput    time.Time
	oldestOutput   time.Time
	outputs        int
}

// observe probes every required and provided file of t. Only malformed
// identifiers and context cancellation produce an error.
func observe(ctx context.Context, p probe.Prober, requires, provides []string) (footprint, error) {
	fp := footprint{outputs: len(provides)}

	for _, f := range requires {
		st, err := p.Probe(ctx, f)
		if err != nil {
			return fp, err
		}
		if !st.Exists {
			fp.missingInputs = append(fp.missingInputs, f)
			continue
		}
		if st.ModTime.After(fp.newestInput) {
			fp.newestInput = st.ModTime
		}
	}

	for _, f := range provides {
		st, err := p.Probe(ctx, f)
		if err != nil {
			return fp, err
		}
		if !st.Exists {
			fp.missingOutputs = append(fp.missingOutputs, f)
			continue
		}
		if fp.oldestOutput.IsZero() || st.ModTime.Before(fp.oldestOutput) {
			fp.oldestOutput = st.ModTime
		}
	}
	return fp, nil
}

// inputsPresent reports whether every required file exists.
func (fp footprint) inputsPresent() bool {
	return len(fp.missingInputs) == 0
}

// upToDate reports whether the task can be skipped: it declares outputs,
// all of them exist, and the oldest is strictly newer than the newest
// input. A task without inputs is up to date as soon as its outputs exist.
func (fp footprint) upToDate() bool {
	if fp.outputs == 0 || len(fp.missingOutputs) > 0 || !fp.inputsPresent() {
		return false
	}
	if fp.newestInput.IsZero() {
		return true
	}
	return fp.oldestOutput.After(fp.newestInput)
}
