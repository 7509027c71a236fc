package dag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/observability"
	"github.com/kbukum/fileflow/probe"
)

const (
	modeRun = "run"
	modeDry = "dry-run"
)

// Engine schedules and runs tasks against the files a Prober can see.
type Engine struct {
	probe      probe.Prober
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.Metrics
	exportPath string
	newRunID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTracer sets the tracer used for run and task spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithMetrics records task and run metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithGraphExport writes the built graph to path before each run.
// Failing to write it is logged and otherwise ignored.
func WithGraphExport(path string) Option {
	return func(e *Engine) { e.exportPath = path }
}

// WithRunID overrides run identifier generation.
func WithRunID(fn func() string) Option {
	return func(e *Engine) { e.newRunID = fn }
}

// NewEngine creates an engine that observes files through p.
func NewEngine(p probe.Prober, opts ...Option) *Engine {
	e := &Engine{
		probe:    p,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.GetGlobalLogger()
	}
	if e.tracer == nil {
		e.tracer = observability.Tracer("fileflow/dag")
	}
	e.log = e.log.WithComponent("dag")
	return e
}

// run carries the state of one Run call.
type run struct {
	*Engine
	id     string
	dryRun bool
	log    *logger.Logger
}

func (r *run) mode() string {
	if r.dryRun {
		return modeDry
	}
	return modeRun
}

// Run builds the graph over tasks, orders it and processes each task once.
// A real run executes stale tasks and stops at the first error. A dry run
// changes nothing and reports what a real run would do. The returned
// Result is never nil and covers every task processed before a failure.
func (e *Engine) Run(ctx context.Context, tasks []*Task, dryRun bool) (*Result, error) {
	r := &run{Engine: e, id: e.newRunID(), dryRun: dryRun}
	r.log = e.log.WithRunID(r.id)
	res := &Result{RunID: r.id, DryRun: dryRun}

	ctx, span := e.tracer.Start(ctx, observability.SpanRun, trace.WithAttributes(
		attribute.String(observability.AttrRunID, r.id),
		attribute.String(observability.AttrMode, r.mode()),
	))
	start := time.Now()

	err := r.execute(ctx, tasks, res)

	res.Duration = time.Since(start)
	status := "ok"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(apperrors.CodeOf(err))))
		if e.metrics != nil {
			e.metrics.RecordError(ctx, string(apperrors.CodeOf(err)), "dag")
		}
		r.log.Error("run failed", logger.Fields(
			logger.FieldError, err.Error(),
			logger.FieldMode, r.mode(),
		))
	} else {
		r.log.Info("run finished", logger.Fields(
			logger.FieldMode, r.mode(),
			"tasks", len(res.Tasks),
			logger.FieldDuration, res.Duration.Milliseconds(),
		))
	}
	span.End()
	if e.metrics != nil {
		e.metrics.RecordRun(ctx, r.mode(), status, res.Duration)
	}
	return res, err
}

func (r *run) execute(ctx context.Context, tasks []*Task, res *Result) error {
	g, err := Build(tasks)
	if err != nil {
		return err
	}

	if r.exportPath != "" {
		if err := ExportGraph(ctx, g, r.exportPath); err != nil {
			r.log.Warn("graph export failed", logger.Fields("path", r.exportPath, logger.FieldError, err.Error()))
		}
	}

	missing, err := r.checkRequirements(ctx, g)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		if !r.dryRun {
			return apperrors.MissingInput(missing...)
		}
		res.MissingSources = missing
		r.log.Warn("external inputs are missing", logger.Fields("files", missing))
	}

	order, err := TaskOrder(g)
	if err != nil {
		return err
	}

	for _, t := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		tr, err := r.process(ctx, t)
		res.Tasks = append(res.Tasks, tr)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkRequirements probes every external input of g and returns the ones
// that are absent.
func (r *run) checkRequirements(ctx context.Context, g *Graph) ([]string, error) {
	sources, err := g.SourceFiles()
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, f := range sources {
		st, err := r.probe.Probe(ctx, f)
		if err != nil {
			return nil, err
		}
		if !st.Exists {
			missing = append(missing, f)
		}
	}
	return missing, nil
}

// process evaluates one task inside its own span.
func (r *run) process(ctx context.Context, t *Task) (TaskResult, error) {
	ctx, op := observability.StartOperation(ctx, r.tracer, r.metrics, r.id, r.mode(), t.Name())

	var (
		tr  TaskResult
		err error
	)
	if r.dryRun {
		tr, err = r.evaluate(ctx, t)
	} else {
		tr, err = r.perform(ctx, t)
	}
	tr.Name = t.Name()
	tr.Duration = op.Duration()
	if err != nil {
		tr.Decision = DecisionFailed
		tr.Err = err
	}

	op.End(ctx, string(tr.Decision), err)
	fields := logger.Fields(
		logger.FieldTask, t.Name(),
		logger.FieldDecision, string(tr.Decision),
		logger.FieldDuration, tr.Duration.Milliseconds(),
	)
	switch {
	case err != nil:
		r.log.Error("task failed", logger.MergeWithError(fields, err))
	case tr.Decision == DecisionCannotEvaluate:
		r.log.Warn("[dry run] prerequisites are not present", fields)
	default:
		r.log.Info("task "+string(tr.Decision), fields)
	}
	return tr, err
}

// evaluate decides what a real run would do with t without touching any
// file. Composites are judged as a unit.
func (r *run) evaluate(ctx context.Context, t *Task) (TaskResult, error) {
	fp, err := observe(ctx, r.probe, t.Requires(), t.Provides())
	if err != nil {
		return TaskResult{}, err
	}
	switch {
	case !fp.inputsPresent():
		return TaskResult{Decision: DecisionCannotEvaluate, Missing: fp.missingInputs}, nil
	case fp.upToDate():
		return TaskResult{Decision: DecisionWouldSkip}, nil
	default:
		return TaskResult{Decision: DecisionWouldRun}, nil
	}
}

// perform runs t if it is stale and checks that its outputs exist after.
func (r *run) perform(ctx context.Context, t *Task) (TaskResult, error) {
	fp, err := observe(ctx, r.probe, t.Requires(), t.Provides())
	if err != nil {
		return TaskResult{}, err
	}
	if !fp.inputsPresent() {
		return TaskResult{Missing: fp.missingInputs}, apperrors.MissingInput(fp.missingInputs...)
	}
	if fp.upToDate() {
		return TaskResult{Decision: DecisionSkipped}, nil
	}

	tr := TaskResult{Decision: DecisionExecuted}
	if t.IsComposite() {
		children, err := r.performChildren(ctx, t)
		tr.Children = children
		if err != nil {
			return tr, err
		}
	} else if t.action != nil {
		if err := t.action(ctx); err != nil {
			return tr, apperrors.ActionFailed(t.Name(), err)
		}
	}

	for _, f := range t.Provides() {
		st, err := r.probe.Probe(ctx, f)
		if err != nil {
			return tr, err
		}
		if !st.Exists {
			return tr, apperrors.Postcondition(t.Name(), f)
		}
	}
	return tr, nil
}

// performChildren runs a composite's children in dependency order, each
// judged on its own staleness.
func (r *run) performChildren(ctx context.Context, t *Task) ([]TaskResult, error) {
	g, err := t.InternalGraph()
	if err != nil {
		return nil, err
	}
	order, err := TaskOrder(g)
	if err != nil {
		return nil, err
	}
	var results []TaskResult
	for _, child := range order {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		tr, err := r.process(ctx, child)
		results = append(results, tr)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
