package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deckgen/content"
	"deckgen/database"
	"deckgen/generate"
	"deckgen/render"
	"deckgen/template"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	db, err := database.InitDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	jobStore := database.NewJobService(db)
	templateStore := database.NewTemplateService(db)
	templateService := NewTemplateFacadeService(templateStore, nil)

	orchestrator := generate.NewOrchestrator(
		templateService.Provider(), nil, render.NewService(nil),
		jobStore, content.GenerateOptions{}, 2, nil,
	)
	generationService := NewGenerationFacadeService(orchestrator, jobStore, nil)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(generationService, templateService, 0, quiet).Router()
}

func registerTestTemplate(t *testing.T, api http.Handler) string {
	t.Helper()
	record := database.TemplateRecord{
		Name: "Corporate",
		Layout: &template.TemplateLayout{
			SlideLayouts: []template.SlideLayout{{
				SlideID: "slide_1",
				Placeholders: []template.Placeholder{
					{Name: "Title 1", Kind: template.KindTitle, W: 8229600, H: 457200},
					{Name: "Content 1", Kind: template.KindBody, Y: 914400, W: 8229600, H: 3657600},
				},
			}},
		},
	}
	body, _ := json.Marshal(record)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/templates", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register template: %d %s", rec.Code, rec.Body.String())
	}
	var created database.TemplateRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created template: %v", err)
	}
	return created.ID
}

func slideBody(templateID, title string) []byte {
	req := slideRequest{
		TemplateID: templateID,
		Slide: generate.SlideRequest{
			TemplateSlideID: "slide_1",
			SlideSpec: content.SlideSpec{
				Title: title,
				Content: &content.Content{Blocks: []content.Block{{
					Type: content.BlockTypeText,
					Text: &content.TextBlock{Paragraph: "some body text"},
				}}},
			},
		},
	}
	body, _ := json.Marshal(req)
	return body
}

func TestGenerateSlideEndpoint(t *testing.T) {
	api := newTestAPI(t)
	templateID := registerTestTemplate(t, api)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-slide", bytes.NewReader(slideBody(templateID, "Hello"))))
	if rec.Code != http.StatusOK {
		t.Fatalf("generate-slide: %d %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("response is not a pptx zip")
	}
	if rec.Header().Get("X-Pages-Generated") != "1" {
		t.Fatalf("pages header = %q", rec.Header().Get("X-Pages-Generated"))
	}
}

func TestGenerateSlideUnknownTemplate(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-slide", bytes.NewReader(slideBody("missing", "X"))))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown template: %d, want 404", rec.Code)
	}
}

func TestGenerateSlideMalformedBody(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-slide", bytes.NewReader([]byte("{not json"))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d, want 400", rec.Code)
	}
}

func TestGenerateSlideOverflowIsUnprocessable(t *testing.T) {
	api := newTestAPI(t)
	templateID := registerTestTemplate(t, api)

	var bullets []string
	for i := 0; i < 400; i++ {
		bullets = append(bullets, fmt.Sprintf("observation %d with enough words to wrap", i))
	}
	req := slideRequest{
		TemplateID: templateID,
		Slide: generate.SlideRequest{
			TemplateSlideID: "slide_1",
			SlideSpec: content.SlideSpec{
				Title: "Cramped",
				Content: &content.Content{Blocks: []content.Block{{
					Type: content.BlockTypeText,
					Text: &content.TextBlock{Bullets: bullets},
				}}},
			},
		},
	}
	body, _ := json.Marshal(req)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-slide", bytes.NewReader(body)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overflow: %d %s, want 422", rec.Code, rec.Body.String())
	}
}

func TestDeckJobEndToEnd(t *testing.T) {
	api := newTestAPI(t)
	templateID := registerTestTemplate(t, api)

	deckReq := generate.Request{
		TemplateID: templateID,
		Slides: []generate.SlideRequest{
			{TemplateSlideID: "slide_1", SlideSpec: content.SlideSpec{Title: "One"}},
			{TemplateSlideID: "slide_1", SlideSpec: content.SlideSpec{Title: "Two"}},
		},
	}
	body, _ := json.Marshal(deckReq)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-deck", bytes.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("generate-deck: %d %s", rec.Code, rec.Body.String())
	}
	var snap generate.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+snap.ID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("job status: %d %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if snap.Status.Terminal() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in %s", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.Status != generate.StatusCompleted {
		t.Fatalf("job finished %s: %+v", snap.Status, snap.Results)
	}

	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+snap.ID+"/download", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("downloaded artifact is not a pptx zip")
	}
}

func TestJobStatusUnknown(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown job: %d, want 404", rec.Code)
	}
}
