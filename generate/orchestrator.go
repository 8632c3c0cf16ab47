package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"deckgen/content"
	"deckgen/database"
	"deckgen/layout"
	"deckgen/style"
	"deckgen/template"
)

// JobStore is the persistence boundary for job state; database.JobService
// satisfies it.
type JobStore interface {
	CreateJob(record database.JobRecord) (*database.JobRecord, error)
	UpdateJob(record database.JobRecord) error
	SaveArtifact(id string, artifact []byte) error
}

// DeckBuilder renders planned pages into .pptx bytes; render.Service
// satisfies it.
type DeckBuilder interface {
	BuildDeck(pages []layout.Page) ([]byte, error)
}

// Orchestrator runs generation jobs: slide fan-out with bounded parallelism,
// per-slide failure isolation, ordered reassembly and one serialized
// assembly pass per job.
type Orchestrator struct {
	templates template.Provider
	logos     style.LogoResolver
	builder   DeckBuilder
	store     JobStore
	defaults  content.GenerateOptions
	workers   int64
	logger    func(string)

	mu   sync.Mutex
	jobs map[string]*Job

	persistMu sync.Mutex
}

// NewOrchestrator creates an orchestrator. workers bounds the number of
// slides resolved concurrently per job; values below 1 are raised to 1.
func NewOrchestrator(templates template.Provider, logos style.LogoResolver, builder DeckBuilder,
	store JobStore, defaults content.GenerateOptions, workers int, logger func(string)) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		templates: templates,
		logos:     logos,
		builder:   builder,
		store:     store,
		defaults:  defaults,
		workers:   int64(workers),
		logger:    logger,
		jobs:      make(map[string]*Job),
	}
}

func (o *Orchestrator) log(msg string) {
	if o.logger != nil {
		o.logger(msg)
	}
}

// Submit registers a job and starts it asynchronously. The returned snapshot
// is the pending state; callers poll Status for progress.
func (o *Orchestrator) Submit(req Request) (Snapshot, error) {
	if req.TemplateID == "" {
		return Snapshot{}, fmt.Errorf("template_id is required")
	}

	opts := content.MergeOptions(&o.defaults, req.Options)
	job := NewJob(uuid.New().String(), req, opts)

	o.mu.Lock()
	o.jobs[job.ID] = job
	o.mu.Unlock()

	requestData, err := json.Marshal(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize request: %w", err)
	}
	if o.store != nil {
		_, err := o.store.CreateJob(database.JobRecord{
			ID:          job.ID,
			TemplateID:  job.TemplateID,
			Status:      string(StatusPending),
			RequestData: string(requestData),
		})
		if err != nil {
			o.mu.Lock()
			delete(o.jobs, job.ID)
			o.mu.Unlock()
			return Snapshot{}, fmt.Errorf("failed to persist job: %w", err)
		}
	}

	go o.run(job)
	return job.Snapshot(), nil
}

// Status returns the current state of a job known to this process.
func (o *Orchestrator) Status(jobID string) (Snapshot, bool) {
	o.mu.Lock()
	job, ok := o.jobs[jobID]
	o.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	return job.Snapshot(), true
}

// run executes one job to a terminal state. Job-fatal conditions (unknown
// template, empty slide list) fail the job with no slide results; slide
// failures are isolated and accounted per slide.
func (o *Orchestrator) run(job *Job) {
	ctx := context.Background()

	if err := job.transition(StatusProcessing); err != nil {
		o.log(fmt.Sprintf("job %s: %v", job.ID, err))
		return
	}
	o.persist(job)

	if len(job.Slides) == 0 {
		job.fail("request contains no slides")
		o.persist(job)
		return
	}
	tpl, err := o.templates.Layout(ctx, job.TemplateID)
	if err != nil {
		job.fail(fmt.Sprintf("template %s: %v", job.TemplateID, err))
		o.persist(job)
		return
	}

	// Fan out: the page sets land in an index-keyed buffer so assembly can
	// restore the original slide order regardless of completion order.
	pageSets := make([][]layout.Page, len(job.Slides))
	sem := semaphore.NewWeighted(o.workers)
	var wg sync.WaitGroup
	for i := range job.Slides {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer sem.Release(1)
			pages, result := o.processSlide(ctx, tpl, idx, &job.Slides[idx], job.Options)
			pageSets[idx] = pages
			job.publishResult(result)
			o.persist(job)
		}(i)
	}
	wg.Wait()

	var deck []layout.Page
	for _, pages := range pageSets {
		deck = append(deck, pages...)
	}
	if len(deck) > 0 {
		artifact, err := o.builder.BuildDeck(deck)
		if err != nil {
			job.fail(fmt.Sprintf("deck assembly failed: %v", err))
			o.persist(job)
			return
		}
		if o.store != nil {
			if err := o.store.SaveArtifact(job.ID, artifact); err != nil {
				o.log(fmt.Sprintf("job %s: failed to save artifact: %v", job.ID, err))
			}
		}
	}

	final := job.finish()
	o.persist(job)
	o.log(fmt.Sprintf("job %s finished: %s", job.ID, final))
}

// processSlide runs one slide through validate, resolve and plan. A panic
// anywhere inside is contained to this slide's result.
func (o *Orchestrator) processSlide(ctx context.Context, tpl *template.TemplateLayout, idx int,
	req *SlideRequest, opts content.GenerateOptions) (pages []layout.Page, result SlideResult) {

	opts = content.MergeOptions(&opts, req.Options)
	result = SlideResult{SlideIndex: idx, TemplateSlideID: req.TemplateSlideID, Status: SlideFailed}
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			result.Status = SlideFailed
			result.PagesGenerated = 0
			result.Error = fmt.Sprintf("slide processing panicked: %v", r)
		}
	}()

	if err := content.Validate(&req.SlideSpec); err != nil {
		result.Error = err.Error()
		return nil, result
	}
	slideLayout, ok := tpl.Slide(req.TemplateSlideID)
	if !ok {
		result.Error = fmt.Sprintf("template has no slide %q", req.TemplateSlideID)
		return nil, result
	}

	resolver := style.NewResolver(slideLayout.RegionDefaults(), o.logos, o.logger)
	resolved := resolver.ResolveSlide(ctx, &req.SlideSpec)

	pages, err := layout.Plan(resolved, slideLayout, opts)
	if err != nil {
		result.Error = err.Error()
		return nil, result
	}

	result.Status = SlideSuccess
	result.PagesGenerated = len(pages)
	return pages, result
}

// GenerateSlide is the synchronous single-slide path: no job, no partial
// states, the first error surfaces directly.
func (o *Orchestrator) GenerateSlide(ctx context.Context, templateID string, req SlideRequest,
	overrides *content.GenerateOptions) ([]byte, int, error) {

	tpl, err := o.templates.Layout(ctx, templateID)
	if err != nil {
		return nil, 0, fmt.Errorf("template %s: %w", templateID, err)
	}
	if err := content.Validate(&req.SlideSpec); err != nil {
		return nil, 0, err
	}
	slideLayout, ok := tpl.Slide(req.TemplateSlideID)
	if !ok {
		return nil, 0, fmt.Errorf("template has no slide %q", req.TemplateSlideID)
	}

	deckOpts := content.MergeOptions(&o.defaults, overrides)
	opts := content.MergeOptions(&deckOpts, req.Options)
	resolver := style.NewResolver(slideLayout.RegionDefaults(), o.logos, o.logger)
	resolved := resolver.ResolveSlide(ctx, &req.SlideSpec)

	pages, err := layout.Plan(resolved, slideLayout, opts)
	if err != nil {
		return nil, 0, err
	}
	artifact, err := o.builder.BuildDeck(pages)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to render slide: %w", err)
	}
	return artifact, len(pages), nil
}

// persist writes the job's snapshot through the store, best effort. Workers
// persist concurrently, so snapshot and write happen under one lock: an
// earlier snapshot can never overwrite a later one in the store.
func (o *Orchestrator) persist(job *Job) {
	if o.store == nil {
		return
	}
	o.persistMu.Lock()
	defer o.persistMu.Unlock()
	snap := job.Snapshot()
	results := make([]database.SlideResultRecord, len(snap.Results))
	for i, r := range snap.Results {
		results[i] = database.SlideResultRecord{
			SlideIndex:      r.SlideIndex,
			TemplateSlideID: r.TemplateSlideID,
			PagesGenerated:  r.PagesGenerated,
			Status:          r.Status,
			Error:           r.Error,
		}
	}
	record := database.JobRecord{
		ID:           snap.ID,
		TemplateID:   snap.TemplateID,
		Status:       string(snap.Status),
		Progress:     snap.Progress,
		SlideResults: results,
	}
	if err := o.store.UpdateJob(record); err != nil {
		o.log(fmt.Sprintf("job %s: failed to persist state: %v", snap.ID, err))
	}
}
