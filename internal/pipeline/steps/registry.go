// Package steps defines the import pipeline steps, their dependencies, and an
// in-memory tracker of step status for one run.
package steps

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Step names.
const (
	ValidateURL    = "validate_url"
	FetchProfile   = "fetch_profile"
	ExtractProfile = "extract_profile"
	ExtractPosts   = "extract_posts"
	Adapt          = "adapt"
	Render         = "render"
	Export         = "export"
)

// Step categories.
const (
	CategoryInput      = "input"
	CategoryFetch      = "fetch"
	CategoryExtraction = "extraction"
	CategoryDocument   = "document"
)

// Step statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// Order is the position of the step in a full run, starting at 1.
	Order int
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	ValidateURL: {
		Name:         ValidateURL,
		Category:     CategoryInput,
		Dependencies: []string{},
		Order:        1,
	},
	FetchProfile: {
		Name:         FetchProfile,
		Category:     CategoryFetch,
		Dependencies: []string{ValidateURL},
		Order:        2,
	},
	ExtractProfile: {
		Name:         ExtractProfile,
		Category:     CategoryExtraction,
		Dependencies: []string{FetchProfile},
		Order:        3,
	},
	ExtractPosts: {
		Name:         ExtractPosts,
		Category:     CategoryExtraction,
		Dependencies: []string{FetchProfile},
		Order:        4,
	},
	Adapt: {
		Name:         Adapt,
		Category:     CategoryDocument,
		Dependencies: []string{ExtractProfile},
		Order:        5,
	},
	Render: {
		Name:         Render,
		Category:     CategoryDocument,
		Dependencies: []string{Adapt},
		Order:        6,
	},
	Export: {
		Name:         Export,
		Category:     CategoryDocument,
		Dependencies: []string{Render},
		Order:        7,
	},
}

// Names returns every step name in run order.
func Names() []string {
	names := make([]string, 0, len(StepRegistry))
	for name := range StepRegistry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return StepRegistry[names[i]].Order < StepRegistry[names[j]].Order
	})
	return names
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// StepRecord is the tracked state of one step.
type StepRecord struct {
	Step      string        `json:"step"`
	Status    string        `json:"status"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
	Error     string        `json:"error,omitempty"`
	startedAt time.Time
}

// Tracker records step status for a single run. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	steps map[string]*StepRecord
	now   func() time.Time
}

// NewTracker returns a tracker with every step pending.
func NewTracker() *Tracker {
	t := &Tracker{steps: make(map[string]*StepRecord, len(StepRegistry)), now: time.Now}
	for name := range StepRegistry {
		t.steps[name] = &StepRecord{Step: name, Status: StatusPending}
	}
	return t
}

// ValidateDependencies checks if all required dependencies for a step are completed
func (t *Tracker) ValidateDependencies(stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var missing []string
	for _, dep := range def.Dependencies {
		if t.steps[dep].Status != StatusCompleted {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// Start validates dependencies and marks the step in progress.
func (t *Tracker) Start(stepName string) error {
	if err := t.ValidateDependencies(stepName); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.steps[stepName]
	rec.Status = StatusInProgress
	rec.startedAt = t.now()
	return nil
}

// Complete marks the step completed.
func (t *Tracker) Complete(stepName string) {
	t.finish(stepName, StatusCompleted, nil)
}

// Fail marks the step failed with err.
func (t *Tracker) Fail(stepName string, err error) {
	t.finish(stepName, StatusFailed, err)
}

// Skip marks a step that the run did not need.
func (t *Tracker) Skip(stepName string) {
	t.finish(stepName, StatusSkipped, nil)
}

func (t *Tracker) finish(stepName, status string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.steps[stepName]
	if !ok {
		return
	}
	rec.Status = status
	if !rec.startedAt.IsZero() {
		rec.Duration = t.now().Sub(rec.startedAt)
	}
	if err != nil {
		rec.Error = err.Error()
	}
}

// Status returns the status of a step, or "" for an unknown step.
func (t *Tracker) Status(stepName string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.steps[stepName]; ok {
		return rec.Status
	}
	return ""
}

// Available returns pending steps whose dependencies are met, in run order.
func (t *Tracker) Available() []string {
	var available []string
	for _, name := range Names() {
		if t.Status(name) != StatusPending {
			continue
		}
		if err := t.ValidateDependencies(name); err != nil {
			continue
		}
		available = append(available, name)
	}
	return available
}

// Blocked returns pending steps whose dependencies are not met, in run order.
func (t *Tracker) Blocked() []string {
	var blocked []string
	for _, name := range Names() {
		if t.Status(name) != StatusPending {
			continue
		}
		if err := t.ValidateDependencies(name); err != nil {
			blocked = append(blocked, name)
		}
	}
	return blocked
}

// Records returns a snapshot of every step in run order.
func (t *Tracker) Records() []StepRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StepRecord, 0, len(t.steps))
	for _, name := range Names() {
		out = append(out, *t.steps[name])
	}
	return out
}
