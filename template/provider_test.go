package template

import (
	"context"
	"fmt"
	"testing"

	"deckgen/content"
	"deckgen/style"
)

// countingStore records how many times each template id was loaded.
type countingStore struct {
	layouts map[string]*TemplateLayout
	loads   map[string]int
}

func (s *countingStore) GetTemplateLayout(templateID string) (*TemplateLayout, error) {
	s.loads[templateID]++
	layout, ok := s.layouts[templateID]
	if !ok {
		return nil, fmt.Errorf("no template found with id: %s", templateID)
	}
	return layout, nil
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func twoColumnLayout() *TemplateLayout {
	return &TemplateLayout{
		TemplateID: "tpl_1",
		SlideLayouts: []SlideLayout{{
			SlideID: "slide_1",
			Placeholders: []Placeholder{
				{Name: "Title 1", Kind: KindTitle, W: 8229600, H: 457200,
					DefaultStyle: &content.TextStyle{FontSize: intPtr(28), Bold: boolPtr(true)}},
				{Name: "Content 1", Kind: KindBody, Y: 914400, W: 4114800, H: 3657600,
					DefaultStyle: &content.TextStyle{FontSize: intPtr(14)}},
				{Name: "Content 2", Kind: KindBody, X: 4114800, Y: 914400, W: 4114800, H: 3657600,
					DefaultStyle: &content.TextStyle{FontSize: intPtr(12)}},
				{Name: "Footer 1", Kind: KindFooter, Y: 4800600, W: 8229600, H: 274320,
					DefaultStyle: &content.TextStyle{FontSize: intPtr(9), Color: strPtr("64748B")}},
			},
		}},
	}
}

func TestCachingProviderLoadsOnce(t *testing.T) {
	store := &countingStore{
		layouts: map[string]*TemplateLayout{"tpl_1": twoColumnLayout()},
		loads:   map[string]int{},
	}
	provider := NewCachingProvider(store)

	for i := 0; i < 5; i++ {
		layout, err := provider.Layout(context.Background(), "tpl_1")
		if err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if layout.TemplateID != "tpl_1" {
			t.Fatalf("TemplateID = %q", layout.TemplateID)
		}
	}
	if store.loads["tpl_1"] != 1 {
		t.Fatalf("store loaded %d times, want 1", store.loads["tpl_1"])
	}
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	store := &countingStore{layouts: map[string]*TemplateLayout{}, loads: map[string]int{}}
	provider := NewCachingProvider(store)

	for i := 0; i < 2; i++ {
		if _, err := provider.Layout(context.Background(), "missing"); err == nil {
			t.Fatal("expected an error for an unknown template")
		}
	}
	if store.loads["missing"] != 2 {
		t.Fatalf("store loaded %d times, want 2 (failed lookups retry)", store.loads["missing"])
	}
}

func TestSlideLayoutContentRegions(t *testing.T) {
	layout := twoColumnLayout()
	slide, ok := layout.Slide("slide_1")
	if !ok {
		t.Fatal("slide_1 not found")
	}

	regions := slide.ContentRegions()
	if len(regions) != 2 {
		t.Fatalf("got %d content regions, want 2", len(regions))
	}
	if regions[0].Name != "Content 1" || regions[1].Name != "Content 2" {
		t.Fatalf("regions out of declaration order: %s, %s", regions[0].Name, regions[1].Name)
	}

	if title := slide.Find(KindTitle); title == nil || title.Name != "Title 1" {
		t.Fatalf("Find(title) = %+v", title)
	}
	if sub := slide.Find(KindSubtitle); sub != nil {
		t.Fatalf("Find(subtitle) = %+v, want nil", sub)
	}

	if _, ok := layout.Slide("slide_99"); ok {
		t.Fatal("unknown slide id must not resolve")
	}
}

func TestRegionDefaultsMapping(t *testing.T) {
	layout := twoColumnLayout()
	slide, _ := layout.Slide("slide_1")

	defaults := slide.RegionDefaults()

	title, ok := defaults[style.RegionTitle]
	if !ok || title.FontSize == nil || *title.FontSize != 28 || title.Bold == nil || !*title.Bold {
		t.Fatalf("title defaults = %+v", title)
	}

	// The first body placeholder feeds both body and table defaults; the
	// second body placeholder must not overwrite it.
	body, ok := defaults[style.RegionBody]
	if !ok || body.FontSize == nil || *body.FontSize != 14 {
		t.Fatalf("body defaults = %+v", body)
	}
	table, ok := defaults[style.RegionTable]
	if !ok || table.FontSize == nil || *table.FontSize != 14 {
		t.Fatalf("table defaults = %+v", table)
	}

	footer, ok := defaults[style.RegionFooter]
	if !ok || footer.Color == nil || *footer.Color != "64748B" {
		t.Fatalf("footer defaults = %+v", footer)
	}

	if _, ok := defaults[style.RegionSubtitle]; ok {
		t.Fatal("no subtitle placeholder, no subtitle default")
	}
}
