package engine

import (
	"sync"
	"time"

	"github.com/vasuvaghasia/formate/internal/audit"
	"github.com/vasuvaghasia/formate/internal/detect"
	"github.com/vasuvaghasia/formate/internal/diff"
	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/docmodel"
	"github.com/vasuvaghasia/formate/internal/styles"
)

// RunStatus represents the state of one formatting run.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusAnalyzing      RunStatus = "analyzing"
	StatusReadyForReview RunStatus = "ready_for_review"
	StatusApplying       RunStatus = "applying"
	StatusDone           RunStatus = "done"
	StatusCancelled      RunStatus = "cancelled"
	StatusFailed         RunStatus = "failed"
)

// Progress tracks apply progress as a fraction plus the current step.
type Progress struct {
	Fraction float64 `json:"fraction"`
	Step     string  `json:"step"`
	Applied  int     `json:"applied"`
	Total    int     `json:"total"`
}

// Run tracks the state of a single formatting invocation against one
// document. Only one run should be in flight per document at a time; the
// engine does not lock the document itself.
type Run struct {
	mu sync.Mutex

	ID       string                   `json:"run_id"`
	Filename string                   `json:"filename"`
	Options  styles.AutoFormatOptions `json:"options"`

	Status   RunStatus             `json:"status"`
	Phase    string                `json:"phase"`
	Problems []detect.Problem      `json:"problems"`
	Changes  []diff.FormatChange   `json:"changes"`
	Progress Progress              `json:"progress"`
	Audit    *audit.Entry          `json:"audit,omitempty"`
	Error    string                `json:"error,omitempty"`
	Model    *docmodel.DocumentModel `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	access     docaccess.Context
	resultPath string
}

// Access returns the run's document access context.
func (r *Run) Access() docaccess.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.access
}

// ResultPath is where the remediated document lives after applying, if the
// backend writes files.
func (r *Run) ResultPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resultPath
}

// SetStatus updates the run state atomically.
func (r *Run) SetStatus(status RunStatus, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Phase = phase
	r.UpdatedAt = time.Now()
}

// SetError records a failure reason.
func (r *Run) SetError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Error = msg
	r.UpdatedAt = time.Now()
}

func (r *Run) setAnalysis(model *docmodel.DocumentModel, problems []detect.Problem, changes []diff.FormatChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Model = model
	r.Problems = problems
	r.Changes = changes
	r.UpdatedAt = time.Now()
}

func (r *Run) setProgress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress = p
	r.UpdatedAt = time.Now()
}

func (r *Run) setAudit(e *audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Audit = e
	r.UpdatedAt = time.Now()
}

// SetChangeEnabled flips the approval flag on one change during review.
func (r *Run) SetChangeEnabled(changeID string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Changes {
		if r.Changes[i].ID == changeID {
			r.Changes[i].Enabled = enabled
			r.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID        string                   `json:"run_id"`
	Filename  string                   `json:"filename"`
	Options   styles.AutoFormatOptions `json:"options"`
	Status    RunStatus                `json:"status"`
	Phase     string                   `json:"phase"`
	Problems  []detect.Problem         `json:"problems"`
	Changes   []diff.FormatChange      `json:"changes"`
	Progress  Progress                 `json:"progress"`
	Audit     *audit.Entry             `json:"audit,omitempty"`
	Error     string                   `json:"error,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	problems := r.Problems
	if problems == nil {
		problems = []detect.Problem{}
	}
	changes := make([]diff.FormatChange, len(r.Changes))
	copy(changes, r.Changes)
	return RunSnapshot{
		ID:        r.ID,
		Filename:  r.Filename,
		Options:   r.Options,
		Status:    r.Status,
		Phase:     r.Phase,
		Problems:  problems,
		Changes:   changes,
		Progress:  r.Progress,
		Audit:     r.Audit,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes expired runs.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		run.mu.Lock()
		stale := now.Sub(run.UpdatedAt) > s.ttl
		run.mu.Unlock()
		if stale {
			delete(s.runs, id)
		}
	}
}
