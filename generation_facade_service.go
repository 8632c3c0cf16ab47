package main

import (
	"context"
	"fmt"
	"time"

	"deckgen/content"
	"deckgen/database"
	"deckgen/generate"
)

// GenerationFacadeService fronts the orchestrator for the HTTP layer: job
// submission, status, artifact download and the synchronous slide path.
// Implements Service.
type GenerationFacadeService struct {
	orchestrator *generate.Orchestrator
	jobs         *database.JobService
	logger       func(string)
}

// NewGenerationFacadeService creates the facade over its collaborators.
func NewGenerationFacadeService(orchestrator *generate.Orchestrator, jobs *database.JobService, logger func(string)) *GenerationFacadeService {
	return &GenerationFacadeService{
		orchestrator: orchestrator,
		jobs:         jobs,
		logger:       logger,
	}
}

// Name returns the service name
func (s *GenerationFacadeService) Name() string {
	return "generation"
}

// Initialize validates wiring; the orchestrator needs no warmup.
func (s *GenerationFacadeService) Initialize(ctx context.Context) error {
	if s.orchestrator == nil {
		return WrapError("generation", "Initialize", fmt.Errorf("orchestrator is nil"))
	}
	return nil
}

// Shutdown is a no-op; running jobs finish against the database.
func (s *GenerationFacadeService) Shutdown() error {
	return nil
}

// SubmitDeck starts an asynchronous deck job.
func (s *GenerationFacadeService) SubmitDeck(req generate.Request) (generate.Snapshot, error) {
	snap, err := s.orchestrator.Submit(req)
	if err != nil {
		return generate.Snapshot{}, WrapError("generation", "SubmitDeck", err)
	}
	if s.logger != nil {
		s.logger(fmt.Sprintf("submitted job %s (%d slides)", snap.ID, len(req.Slides)))
	}
	return snap, nil
}

// GenerateSlide runs the synchronous single-slide path.
func (s *GenerationFacadeService) GenerateSlide(ctx context.Context, templateID string,
	slide generate.SlideRequest, opts *content.GenerateOptions) ([]byte, int, error) {
	return s.orchestrator.GenerateSlide(ctx, templateID, slide, opts)
}

// JobStatus reads a job's state, preferring the in-process job and falling
// back to the persisted record after a restart.
func (s *GenerationFacadeService) JobStatus(jobID string) (generate.Snapshot, error) {
	if snap, ok := s.orchestrator.Status(jobID); ok {
		return snap, nil
	}
	record, err := s.jobs.GetJob(jobID)
	if err != nil {
		return generate.Snapshot{}, WrapError("generation", "JobStatus", err)
	}
	return snapshotFromRecord(record), nil
}

// Artifact returns the finished deck bytes for a job.
func (s *GenerationFacadeService) Artifact(jobID string) ([]byte, error) {
	data, err := s.jobs.GetArtifact(jobID)
	if err != nil {
		return nil, WrapError("generation", "Artifact", err)
	}
	return data, nil
}

// ListJobs returns recent jobs, newest first.
func (s *GenerationFacadeService) ListJobs(limit int) ([]generate.Snapshot, error) {
	records, err := s.jobs.ListJobs(limit)
	if err != nil {
		return nil, WrapError("generation", "ListJobs", err)
	}
	snaps := make([]generate.Snapshot, len(records))
	for i := range records {
		snaps[i] = snapshotFromRecord(&records[i])
	}
	return snaps, nil
}

func snapshotFromRecord(record *database.JobRecord) generate.Snapshot {
	results := make([]generate.SlideResult, len(record.SlideResults))
	for i, r := range record.SlideResults {
		results[i] = generate.SlideResult{
			SlideIndex:      r.SlideIndex,
			TemplateSlideID: r.TemplateSlideID,
			PagesGenerated:  r.PagesGenerated,
			Status:          r.Status,
			Error:           r.Error,
		}
	}
	return generate.Snapshot{
		ID:         record.ID,
		TemplateID: record.TemplateID,
		Status:     generate.Status(record.Status),
		Progress:   record.Progress,
		Results:    results,
		CreatedAt:  time.UnixMilli(record.CreatedAt),
	}
}
