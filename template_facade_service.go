package main

import (
	"context"
	"fmt"

	"deckgen/database"
	"deckgen/template"
)

// TemplateFacadeService fronts template registration and lookup for the
// HTTP layer. Implements Service.
type TemplateFacadeService struct {
	store    *database.TemplateService
	provider *template.CachingProvider
	logger   func(string)
}

// NewTemplateFacadeService creates the facade over the template store.
func NewTemplateFacadeService(store *database.TemplateService, logger func(string)) *TemplateFacadeService {
	return &TemplateFacadeService{
		store:    store,
		provider: template.NewCachingProvider(store),
		logger:   logger,
	}
}

// Name returns the service name
func (s *TemplateFacadeService) Name() string {
	return "templates"
}

// Initialize validates wiring.
func (s *TemplateFacadeService) Initialize(ctx context.Context) error {
	if s.store == nil {
		return WrapError("templates", "Initialize", fmt.Errorf("template store is nil"))
	}
	return nil
}

// Shutdown is a no-op.
func (s *TemplateFacadeService) Shutdown() error {
	return nil
}

// Provider returns the cached layout provider the orchestrator reads through.
func (s *TemplateFacadeService) Provider() template.Provider {
	return s.provider
}

// Register stores an analyzed template layout.
func (s *TemplateFacadeService) Register(record database.TemplateRecord) (*database.TemplateRecord, error) {
	created, err := s.store.RegisterTemplate(record)
	if err != nil {
		return nil, WrapError("templates", "Register", err)
	}
	if s.logger != nil {
		s.logger(fmt.Sprintf("registered template %s (%d slide layouts)", created.ID, len(created.Layout.SlideLayouts)))
	}
	return created, nil
}

// Get loads one registered template, layout included.
func (s *TemplateFacadeService) Get(id string) (*database.TemplateRecord, error) {
	record, err := s.store.GetTemplate(id)
	if err != nil {
		return nil, WrapError("templates", "Get", err)
	}
	return record, nil
}

// List returns all registered templates without layout bodies.
func (s *TemplateFacadeService) List() ([]database.TemplateRecord, error) {
	records, err := s.store.ListTemplates()
	if err != nil {
		return nil, WrapError("templates", "List", err)
	}
	return records, nil
}
