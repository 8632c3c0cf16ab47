package generate

import (
	"encoding/json"
	"testing"

	"deckgen/content"
)

func pendingJob(slides int) *Job {
	req := Request{TemplateID: "tpl-1"}
	for i := 0; i < slides; i++ {
		req.Slides = append(req.Slides, SlideRequest{TemplateSlideID: "slide_1"})
	}
	return NewJob("job-1", req, content.GenerateOptions{})
}

func TestSlideRequestDecodesPerSlideOptions(t *testing.T) {
	data := []byte(`{"template_slide_id":"slide_1","title":"T","options":{"auto_paginate_tables":false}}`)
	var req SlideRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.TemplateSlideID != "slide_1" || req.Title != "T" {
		t.Fatalf("decoded request = %+v", req)
	}
	if req.Options == nil || req.Options.AutoPaginateTables == nil || *req.Options.AutoPaginateTables {
		t.Fatalf("per-slide options dropped: %+v", req.Options)
	}
}

func TestJobLifecycle(t *testing.T) {
	job := pendingJob(2)

	if err := job.transition(StatusCompleted); err == nil {
		t.Fatal("pending -> completed must be rejected")
	}
	if err := job.transition(StatusProcessing); err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}
	if err := job.transition(StatusPending); err == nil {
		t.Fatal("processing -> pending must be rejected")
	}
	if err := job.transition(StatusPartial); err != nil {
		t.Fatalf("processing -> partial: %v", err)
	}
}

func TestJobTerminalStatesAreFinal(t *testing.T) {
	job := pendingJob(1)
	if err := job.transition(StatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := job.transition(StatusCompleted); err != nil {
		t.Fatalf("transition: %v", err)
	}
	for _, to := range []Status{StatusPending, StatusProcessing, StatusPartial, StatusFailed} {
		if err := job.transition(to); err == nil {
			t.Fatalf("completed -> %s must be rejected", to)
		}
	}
	if !StatusCompleted.Terminal() || StatusProcessing.Terminal() {
		t.Fatal("Terminal misclassifies states")
	}
}

func TestJobProgressMonotonic(t *testing.T) {
	job := pendingJob(4)
	if err := job.transition(StatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}

	last := 0
	for i := 0; i < 4; i++ {
		job.publishResult(SlideResult{SlideIndex: i, Status: SlideSuccess})
		snap := job.Snapshot()
		if snap.Progress < last {
			t.Fatalf("progress moved backwards: %d -> %d", last, snap.Progress)
		}
		last = snap.Progress
	}
	if last != 100 {
		t.Fatalf("progress after all slides = %d, want 100", last)
	}
}

func TestJobFinishAggregation(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     Status
	}{
		{"all succeed", []string{SlideSuccess, SlideSuccess}, StatusCompleted},
		{"ok fail ok", []string{SlideSuccess, SlideFailed, SlideSuccess}, StatusPartial},
		{"all fail", []string{SlideFailed, SlideFailed}, StatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := pendingJob(len(tc.statuses))
			if err := job.transition(StatusProcessing); err != nil {
				t.Fatalf("transition: %v", err)
			}
			for i, st := range tc.statuses {
				job.publishResult(SlideResult{SlideIndex: i, Status: st})
			}
			if got := job.finish(); got != tc.want {
				t.Fatalf("finish() = %s, want %s", got, tc.want)
			}
			snap := job.Snapshot()
			if snap.Status != tc.want {
				t.Fatalf("snapshot status = %s, want %s", snap.Status, tc.want)
			}
			if tc.want == StatusFailed && snap.Error == "" {
				t.Fatal("failed job should carry a reason")
			}
		})
	}
}

func TestJobSnapshotOrdersResultsByIndex(t *testing.T) {
	job := pendingJob(3)
	if err := job.transition(StatusProcessing); err != nil {
		t.Fatalf("transition: %v", err)
	}
	// Completion order differs from request order.
	job.publishResult(SlideResult{SlideIndex: 2, Status: SlideSuccess})
	job.publishResult(SlideResult{SlideIndex: 0, Status: SlideSuccess})
	job.publishResult(SlideResult{SlideIndex: 1, Status: SlideFailed})

	snap := job.Snapshot()
	for i, r := range snap.Results {
		if r.SlideIndex != i {
			t.Fatalf("results not in request order: %+v", snap.Results)
		}
	}
}
