// Package template exposes the template collaborator boundary: analyzed
// slide layouts with named placeholder regions and geometry, and the logo
// fetch used for logo cells. Template structural analysis itself happens
// upstream; layouts arrive pre-analyzed and are only resolved and cached
// here.
package template

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"deckgen/content"
	"deckgen/style"
)

// Placeholder kinds a slide layout can declare. Content regions (kind
// "body") receive the slide's columns positionally, in declaration order.
const (
	KindTitle    = "title"
	KindSubtitle = "subtitle"
	KindHeader   = "header"
	KindBody     = "body"
	KindFooter   = "footer"
)

// Placeholder is one named, template-defined rectangle with its default
// text style. Geometry is EMU.
type Placeholder struct {
	Name         string             `json:"name"`
	Kind         string             `json:"kind"`
	X            int64              `json:"x"`
	Y            int64              `json:"y"`
	W            int64              `json:"w"`
	H            int64              `json:"h"`
	DefaultStyle *content.TextStyle `json:"default_style,omitempty"`
}

// SlideLayout is one analyzed template slide.
type SlideLayout struct {
	SlideID      string        `json:"slide_id"`
	Name         string        `json:"name,omitempty"`
	Placeholders []Placeholder `json:"placeholders"`
}

// ContentRegions returns the layout's body placeholders in declaration
// order. Their count is the column count the layout accepts.
func (l *SlideLayout) ContentRegions() []*Placeholder {
	var regions []*Placeholder
	for i := range l.Placeholders {
		if l.Placeholders[i].Kind == KindBody {
			regions = append(regions, &l.Placeholders[i])
		}
	}
	return regions
}

// Find returns the first placeholder of the given kind, or nil.
func (l *SlideLayout) Find(kind string) *Placeholder {
	for i := range l.Placeholders {
		if l.Placeholders[i].Kind == kind {
			return &l.Placeholders[i]
		}
	}
	return nil
}

// RegionDefaults maps the layout's placeholder default styles into the
// style resolver's lowest-precedence source. Body defaults feed both the
// body and table regions.
func (l *SlideLayout) RegionDefaults() style.RegionDefaults {
	defaults := style.RegionDefaults{}
	set := func(region string, st *content.TextStyle) {
		if st != nil {
			defaults[region] = *st
		}
	}
	for i := range l.Placeholders {
		p := &l.Placeholders[i]
		switch p.Kind {
		case KindTitle:
			set(style.RegionTitle, p.DefaultStyle)
		case KindSubtitle:
			set(style.RegionSubtitle, p.DefaultStyle)
		case KindHeader:
			set(style.RegionHeader, p.DefaultStyle)
		case KindBody:
			if _, ok := defaults[style.RegionBody]; !ok {
				set(style.RegionBody, p.DefaultStyle)
				set(style.RegionTable, p.DefaultStyle)
			}
		case KindFooter:
			set(style.RegionFooter, p.DefaultStyle)
		}
	}
	return defaults
}

// TemplateLayout is the full analyzed layout of one uploaded template.
type TemplateLayout struct {
	TemplateID   string        `json:"template_id"`
	Name         string        `json:"name,omitempty"`
	Filename     string        `json:"filename,omitempty"`
	SlideLayouts []SlideLayout `json:"slide_layouts"`
}

// Slide returns the layout for a template slide id.
func (t *TemplateLayout) Slide(slideID string) (*SlideLayout, bool) {
	for i := range t.SlideLayouts {
		if t.SlideLayouts[i].SlideID == slideID {
			return &t.SlideLayouts[i], true
		}
	}
	return nil, false
}

// Provider resolves template identifiers to analyzed layouts. The style
// resolver treats the result as the lowest-precedence style source; the
// layout engine treats it as the authoritative bounding geometry.
type Provider interface {
	Layout(ctx context.Context, templateID string) (*TemplateLayout, error)
}

// LayoutStore is the persistence boundary the caching provider reads
// through; database.TemplateService satisfies it.
type LayoutStore interface {
	GetTemplateLayout(templateID string) (*TemplateLayout, error)
}

// CachingProvider reads layouts through a store with an in-memory TTL
// cache. Layouts are immutable once registered, so a short TTL only bounds
// memory, not staleness.
type CachingProvider struct {
	store LayoutStore
	cache *gocache.Cache
}

// NewCachingProvider creates a provider over the given store.
func NewCachingProvider(store LayoutStore) *CachingProvider {
	return &CachingProvider{
		store: store,
		cache: gocache.New(15*time.Minute, 30*time.Minute),
	}
}

// Layout implements Provider.
func (p *CachingProvider) Layout(_ context.Context, templateID string) (*TemplateLayout, error) {
	if cached, ok := p.cache.Get(templateID); ok {
		return cached.(*TemplateLayout), nil
	}
	layout, err := p.store.GetTemplateLayout(templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	p.cache.Set(templateID, layout, gocache.DefaultExpiration)
	return layout, nil
}
