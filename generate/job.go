// Package generate orchestrates deck generation: it fans requested slides
// out to a bounded worker pool, runs each through resolve, plan and render,
// and accounts per-slide failures into an aggregate job status.
package generate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"deckgen/content"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// validNext lists the allowed transitions. Pending may fail directly when
// the job is rejected before any slide runs.
var validNext = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusPartial, StatusFailed},
}

// SlideRequest is one requested slide: the template slide it maps onto, its
// content spec, and optional generation options merged over the deck's.
type SlideRequest struct {
	TemplateSlideID string                   `json:"template_slide_id"`
	Options         *content.GenerateOptions `json:"options,omitempty"`
	content.SlideSpec
}

// Request is a deck generation request.
type Request struct {
	TemplateID string                   `json:"template_id"`
	Slides     []SlideRequest           `json:"slides"`
	Options    *content.GenerateOptions `json:"options,omitempty"`
}

// SlideResult is the outcome of one requested slide.
type SlideResult struct {
	SlideIndex      int    `json:"slide_index"`
	TemplateSlideID string `json:"template_slide_id"`
	PagesGenerated  int    `json:"pages_generated"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
}

const (
	SlideSuccess = "success"
	SlideFailed  = "failed"
)

// Job is the mutable state of one generation run. All mutation goes through
// the methods below, which hold the mutex; readers get copies via Snapshot.
type Job struct {
	ID         string
	TemplateID string
	Slides     []SlideRequest
	Options    content.GenerateOptions

	mu         sync.Mutex
	status     Status
	progress   int
	results    []SlideResult
	failReason string
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
}

// NewJob creates a pending job for a request.
func NewJob(id string, req Request, opts content.GenerateOptions) *Job {
	return &Job{
		ID:         id,
		TemplateID: req.TemplateID,
		Slides:     req.Slides,
		Options:    opts,
		status:     StatusPending,
		createdAt:  time.Now(),
	}
}

// Snapshot is an immutable copy of a job's observable state.
type Snapshot struct {
	ID         string        `json:"job_id"`
	TemplateID string        `json:"template_id"`
	Status     Status        `json:"status"`
	Progress   int           `json:"progress"`
	Results    []SlideResult `json:"slide_results"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
}

// Snapshot returns a copy of the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]SlideResult, len(j.results))
	copy(results, j.results)
	// Results arrive in completion order; readers see request order.
	sort.Slice(results, func(a, b int) bool { return results[a].SlideIndex < results[b].SlideIndex })
	return Snapshot{
		ID:         j.ID,
		TemplateID: j.TemplateID,
		Status:     j.status,
		Progress:   j.progress,
		Results:    results,
		Error:      j.failReason,
		CreatedAt:  j.createdAt,
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
	}
}

// transition moves the job to a new status, rejecting anything the
// lifecycle does not allow. Terminal states never transition again.
func (j *Job) transition(to Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transitionLocked(to)
}

func (j *Job) transitionLocked(to Status) error {
	for _, allowed := range validNext[j.status] {
		if allowed == to {
			j.status = to
			switch to {
			case StatusProcessing:
				j.startedAt = time.Now()
			case StatusCompleted, StatusPartial, StatusFailed:
				j.finishedAt = time.Now()
				j.progress = 100
			}
			return nil
		}
	}
	return fmt.Errorf("invalid job transition %s -> %s", j.status, to)
}

// publishResult records one slide's outcome and advances progress. Progress
// is monotonic: attempted/total, never decreasing.
func (j *Job) publishResult(result SlideResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, result)
	if p := len(j.results) * 100 / len(j.Slides); p > j.progress {
		j.progress = p
	}
}

// fail moves the job to failed with a job-level reason.
func (j *Job) fail(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusFailed); err != nil {
		return
	}
	j.failReason = reason
}

// finish applies the aggregate status rule over the published results:
// every slide succeeded -> completed, some -> partial, none -> failed.
func (j *Job) finish() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	succeeded := 0
	for _, r := range j.results {
		if r.Status == SlideSuccess {
			succeeded++
		}
	}
	final := StatusFailed
	switch {
	case succeeded == len(j.Slides):
		final = StatusCompleted
	case succeeded > 0:
		final = StatusPartial
	}
	if err := j.transitionLocked(final); err != nil {
		return j.status
	}
	if final == StatusFailed {
		j.failReason = "all slides failed"
	}
	return final
}
