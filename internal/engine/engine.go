// Package engine orchestrates formatting runs: a small state machine that
// drives model building, detection, diff generation and the sequential
// application of approved changes against the live document.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vasuvaghasia/formate/internal/audit"
	"github.com/vasuvaghasia/formate/internal/detect"
	"github.com/vasuvaghasia/formate/internal/diff"
	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/docmodel"
	"github.com/vasuvaghasia/formate/internal/styles"
)

// Advisor contributes extra findings when the processing mode is "model".
// The concrete generative client is an external collaborator; a nil Advisor
// means heuristics only.
type Advisor interface {
	Review(ctx context.Context, m *docmodel.DocumentModel) ([]detect.Problem, error)
}

// Options configures the engine.
type Options struct {
	WorkerCount int
	QueueSize   int
	RunTTL      time.Duration
	// StepTimeout bounds each change application; 0 disables the bound.
	StepTimeout time.Duration
}

// Engine runs the analysis/apply pipeline.
type Engine struct {
	runs    *RunStore
	queue   chan *Run
	reg     *styles.Registry
	audit   *audit.Logger
	advisor Advisor
	log     *slog.Logger
	opts    Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the engine. Advisor may be nil.
func New(reg *styles.Registry, auditLog *audit.Logger, advisor Advisor, log *slog.Logger, opts Options) *Engine {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 32
	}
	if opts.RunTTL <= 0 {
		opts.RunTTL = time.Hour
	}
	return &Engine{
		runs:    NewRunStore(opts.RunTTL),
		queue:   make(chan *Run, opts.QueueSize),
		reg:     reg,
		audit:   auditLog,
		advisor: advisor,
		log:     log,
		opts:    opts,
	}
}

// Registry exposes the template registry for handlers.
func (e *Engine) Registry() *styles.Registry { return e.reg }

// AuditLog exposes the audit logger for handlers.
func (e *Engine) AuditLog() *audit.Logger { return e.audit }

// Start launches worker goroutines.
func (e *Engine) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	for i := 0; i < e.opts.WorkerCount; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case run, ok := <-e.queue:
					if !ok {
						return
					}
					e.process(workerCtx, run)
				}
			}
		}()
	}

	// Run store cleanup.
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				e.runs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts the engine down.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	close(e.queue)
	e.wg.Wait()
}

// NewRun registers a run in the queued state. resultPath is where file
// backends write the remediated document (may be empty).
func (e *Engine) NewRun(access docaccess.Context, filename, resultPath string, opts styles.AutoFormatOptions) *Run {
	now := time.Now()
	run := &Run{
		ID:         newRunID(),
		Filename:   filename,
		Options:    opts,
		Status:     StatusQueued,
		Phase:      "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
		access:     access,
		resultPath: resultPath,
	}
	e.runs.Put(run)
	return run
}

// Submit queues a run for asynchronous processing.
func (e *Engine) Submit(run *Run) error {
	select {
	case e.queue <- run:
		return nil
	default:
		run.SetStatus(StatusFailed, "queue_full")
		run.SetError("run queue is full")
		return fmt.Errorf("run queue is full (%d)", e.opts.QueueSize)
	}
}

// GetRun returns a run by id.
func (e *Engine) GetRun(id string) *Run {
	return e.runs.Get(id)
}

// QueueDepth returns current queue depth.
func (e *Engine) QueueDepth() int {
	return len(e.queue)
}

// process drives one queued run through analysis and, for auto-fix, through
// application.
func (e *Engine) process(ctx context.Context, run *Run) {
	log := e.log.With("run_id", run.ID, "filename", run.Filename)
	if err := e.Analyze(ctx, run); err != nil {
		log.Error("analysis failed", "error", err)
		return
	}
	if run.Options.Mode == styles.ModeAutoFix {
		if _, err := e.Apply(ctx, run, nil, nil); err != nil {
			log.Error("apply failed", "error", err)
		}
	}
}

// Analyze validates the run options, builds the document model, runs the
// enabled detectors and generates the change list — strictly in that order.
// Any failure here aborts with no document mutation having occurred.
func (e *Engine) Analyze(ctx context.Context, run *Run) error {
	opts := run.Options

	if err := opts.Validate(); err != nil {
		return e.fail(run, "configuring", &ConfigurationFailure{Reason: err.Error()})
	}
	tmpl, ok := e.reg.Get(opts.TemplateID)
	if !ok {
		return e.fail(run, "configuring", &ConfigurationFailure{Reason: fmt.Sprintf("unknown template %q", opts.TemplateID)})
	}
	if run.Access().ReadOnly() && opts.Mode != styles.ModeSuggest {
		return e.fail(run, "configuring", &ConfigurationFailure{
			Reason: fmt.Sprintf("%s documents are read-only and support suggest mode only", run.Filename),
		})
	}

	run.SetStatus(StatusAnalyzing, "building model")
	model, err := docmodel.Build(ctx, run.Access())
	if err != nil {
		return e.fail(run, "building model", &ReadFailure{Err: err})
	}

	run.SetStatus(StatusAnalyzing, "detecting problems")
	problems := detect.All(model, detect.Enabled(opts))
	if opts.Processing == styles.ProcessingModel && e.advisor != nil {
		extra, err := e.advisor.Review(ctx, model)
		if err != nil {
			// Advisory findings are best-effort; heuristics stand alone.
			e.log.Warn("advisor review failed", "run_id", run.ID, "error", err)
		} else {
			problems = append(problems, extra...)
		}
	}

	run.SetStatus(StatusAnalyzing, "generating changes")
	changes := diff.Generate(model, problems, opts, tmpl)
	run.setAnalysis(model, problems, changes)

	// Auto-fix runs go straight to applying; publishing ready_for_review
	// here would let a concurrent apply request race the worker's own.
	if opts.Mode == styles.ModeAutoFix {
		run.SetStatus(StatusApplying, "applying changes")
	} else {
		run.SetStatus(StatusReadyForReview, "awaiting approval")
	}
	return nil
}

// Apply executes the approved changes strictly in list order, one at a time:
// every change mutates the same shared document, so applications are never
// concurrent. changeIDs selects the approved subset; nil means every enabled
// change. onProgress, if non-nil, observes fractional progress after each
// completed application.
//
// A failure abandons the remaining changes and keeps the already-applied
// ones: there is no rollback. Cancellation is observed only between
// applications; an in-flight application finishes.
func (e *Engine) Apply(ctx context.Context, run *Run, changeIDs []string, onProgress func(Progress)) (*audit.Entry, error) {
	approved, err := selectChanges(run.Snapshot().Changes, changeIDs)
	if err != nil {
		return nil, e.fail(run, "selecting changes", &ConfigurationFailure{Reason: err.Error()})
	}

	log := e.log.With("run_id", run.ID)
	run.SetStatus(StatusApplying, "applying changes")
	start := time.Now()
	total := len(approved)
	applied := 0
	var categories []string
	seen := make(map[detect.Category]bool)

	for _, change := range approved {
		select {
		case <-ctx.Done():
			log.Info("run cancelled", "applied", applied, "total", total)
			run.SetStatus(StatusCancelled, "cancelled")
			return nil, ctx.Err()
		default:
		}

		run.setProgress(Progress{
			Fraction: float64(applied) / float64(total),
			Step:     change.Description,
			Applied:  applied,
			Total:    total,
		})

		if err := e.applyOne(ctx, run.Access(), change); err != nil {
			failure := &ApplyFailure{ChangeID: change.ID, Applied: applied, Total: total, Err: err}
			log.Error("change failed", "change_id", change.ID, "applied", applied, "error", err)
			run.SetError(failure.Error())
			run.SetStatus(StatusFailed, "applying changes")
			return nil, failure
		}

		applied++
		if !seen[change.Category] {
			seen[change.Category] = true
			categories = append(categories, string(change.Category))
		}
		p := Progress{
			Fraction: float64(applied) / float64(total),
			Step:     change.Description,
			Applied:  applied,
			Total:    total,
		}
		run.setProgress(p)
		if onProgress != nil {
			onProgress(p)
		}
	}

	entry := audit.Entry{
		Timestamp:      time.Now(),
		ChangesApplied: applied,
		Categories:     categories,
		DurationMS:     time.Since(start).Milliseconds(),
	}
	e.audit.Log(ctx, entry)
	run.setAudit(&entry)
	run.SetStatus(StatusDone, "done")
	log.Info("run complete", "applied", applied, "categories", categories)
	return &entry, nil
}

// applyOne issues one change as a write batch plus sync, bounded by the
// per-step timeout when one is configured.
func (e *Engine) applyOne(ctx context.Context, access docaccess.Context, change diff.FormatChange) error {
	if e.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.StepTimeout)
		defer cancel()
	}
	if err := access.WriteBatch(ctx, []docaccess.Op{change.Command}); err != nil {
		return err
	}
	return access.Sync(ctx)
}

// selectChanges resolves the approved subset in list order. nil ids selects
// every enabled change.
func selectChanges(changes []diff.FormatChange, ids []string) ([]diff.FormatChange, error) {
	if ids == nil {
		var out []diff.FormatChange
		for _, c := range changes {
			if c.Enabled {
				out = append(out, c)
			}
		}
		return out, nil
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []diff.FormatChange
	for _, c := range changes {
		if want[c.ID] {
			out = append(out, c)
			delete(want, c.ID)
		}
	}
	if len(want) > 0 {
		for id := range want {
			return nil, fmt.Errorf("unknown change id %q", id)
		}
	}
	return out, nil
}

func (e *Engine) fail(run *Run, phase string, err error) error {
	run.SetError(err.Error())
	run.SetStatus(StatusFailed, phase)
	return err
}
