package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deckgen/template"
)

// TemplateRecord is one registered template, layout included.
type TemplateRecord struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name,omitempty"`
	Filename  string                   `json:"filename,omitempty"`
	Layout    *template.TemplateLayout `json:"layout,omitempty"`
	CreatedAt int64                    `json:"created_at"`
}

// TemplateService provides methods for managing registered template layouts
type TemplateService struct {
	db *sql.DB
}

// NewTemplateService creates a new TemplateService instance
func NewTemplateService(db *sql.DB) *TemplateService {
	return &TemplateService{
		db: db,
	}
}

// RegisterTemplate stores an analyzed template layout. A missing id is
// generated; registering an existing id replaces its layout.
func (s *TemplateService) RegisterTemplate(record TemplateRecord) (*TemplateRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if record.Layout == nil || len(record.Layout.SlideLayouts) == 0 {
		return nil, fmt.Errorf("template layout must contain at least one slide layout")
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.Layout.TemplateID = record.ID
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().UnixMilli()
	}

	layoutData, err := json.Marshal(record.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize layout data: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRow("SELECT id FROM templates WHERE id = ?", record.ID).Scan(&existingID)
	if err == sql.ErrNoRows {
		query := `
			INSERT INTO templates (id, name, filename, layout_data, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		_, err = tx.Exec(query, record.ID, record.Name, record.Filename, string(layoutData), record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert template: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check existing template: %w", err)
	} else {
		query := `
			UPDATE templates
			SET name = ?, filename = ?, layout_data = ?
			WHERE id = ?
		`
		_, err = tx.Exec(query, record.Name, record.Filename, string(layoutData), record.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update template: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &record, nil
}

// GetTemplate loads one registered template by id.
func (s *TemplateService) GetTemplate(id string) (*TemplateRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if id == "" {
		return nil, fmt.Errorf("template id is required")
	}

	var record TemplateRecord
	var layoutData string
	query := `
		SELECT id, name, filename, layout_data, created_at
		FROM templates
		WHERE id = ?
	`
	err := s.db.QueryRow(query, id).Scan(&record.ID, &record.Name, &record.Filename, &layoutData, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no template found with id: %s", id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to query template: %w", err)
	}

	var layout template.TemplateLayout
	if err := json.Unmarshal([]byte(layoutData), &layout); err != nil {
		return nil, fmt.Errorf("failed to deserialize layout data: %w", err)
	}
	record.Layout = &layout
	return &record, nil
}

// GetTemplateLayout satisfies template.LayoutStore.
func (s *TemplateService) GetTemplateLayout(id string) (*template.TemplateLayout, error) {
	record, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	return record.Layout, nil
}

// ListTemplates returns all registered templates, newest first, without
// their layout bodies.
func (s *TemplateService) ListTemplates() ([]TemplateRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, name, filename, created_at
		FROM templates
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var records []TemplateRecord
	for rows.Next() {
		var record TemplateRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Filename, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template rows: %w", err)
	}
	return records, nil
}
