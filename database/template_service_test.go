package database

import (
	"strings"
	"testing"

	"deckgen/template"
)

func sampleLayout() *template.TemplateLayout {
	return &template.TemplateLayout{
		Name: "Corporate",
		SlideLayouts: []template.SlideLayout{
			{
				SlideID: "slide_1",
				Name:    "Title and Content",
				Placeholders: []template.Placeholder{
					{Name: "Title 1", Kind: template.KindTitle, W: 8229600, H: 457200},
					{Name: "Content 1", Kind: template.KindBody, Y: 457200, W: 8229600, H: 4572000},
				},
			},
		},
	}
}

func TestRegisterTemplate_InsertAndLoad(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))

	created, err := service.RegisterTemplate(TemplateRecord{
		Name:     "Corporate",
		Filename: "corporate.pptx",
		Layout:   sampleLayout(),
	})
	if err != nil {
		t.Fatalf("RegisterTemplate failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("RegisterTemplate should generate an id")
	}

	loaded, err := service.GetTemplate(created.ID)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if loaded.Layout == nil || len(loaded.Layout.SlideLayouts) != 1 {
		t.Fatalf("loaded layout = %+v", loaded.Layout)
	}
	slide, ok := loaded.Layout.Slide("slide_1")
	if !ok {
		t.Fatal("stored layout lost its slide")
	}
	if len(slide.ContentRegions()) != 1 {
		t.Fatalf("content regions = %d, want 1", len(slide.ContentRegions()))
	}
}

func TestRegisterTemplate_ReplacesExisting(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))

	created, err := service.RegisterTemplate(TemplateRecord{ID: "tpl-1", Layout: sampleLayout()})
	if err != nil {
		t.Fatalf("RegisterTemplate failed: %v", err)
	}

	updated := sampleLayout()
	updated.SlideLayouts[0].Name = "Revised"
	if _, err := service.RegisterTemplate(TemplateRecord{ID: created.ID, Name: "v2", Layout: updated}); err != nil {
		t.Fatalf("re-register failed: %v", err)
	}

	loaded, err := service.GetTemplate(created.ID)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if loaded.Name != "v2" || loaded.Layout.SlideLayouts[0].Name != "Revised" {
		t.Fatalf("replacement not persisted: %+v", loaded)
	}

	all, err := service.ListTemplates()
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("re-registering must not duplicate rows, got %d", len(all))
	}
}

func TestRegisterTemplate_RejectsEmptyLayout(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))

	_, err := service.RegisterTemplate(TemplateRecord{Name: "empty"})
	if err == nil || !strings.Contains(err.Error(), "slide layout") {
		t.Fatalf("expected layout validation error, got %v", err)
	}
}

func TestGetTemplateLayout_SatisfiesLayoutStore(t *testing.T) {
	service := NewTemplateService(setupTestDB(t))
	var _ template.LayoutStore = service

	created, err := service.RegisterTemplate(TemplateRecord{Layout: sampleLayout()})
	if err != nil {
		t.Fatalf("RegisterTemplate failed: %v", err)
	}

	layout, err := service.GetTemplateLayout(created.ID)
	if err != nil {
		t.Fatalf("GetTemplateLayout failed: %v", err)
	}
	if layout.TemplateID != created.ID {
		t.Fatalf("layout template id = %q, want %q", layout.TemplateID, created.ID)
	}

	if _, err := service.GetTemplateLayout("missing"); err == nil {
		t.Fatal("unknown template must error")
	}
}
