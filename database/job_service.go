package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlideResultRecord is the persisted outcome of one requested slide.
type SlideResultRecord struct {
	SlideIndex      int    `json:"slide_index"`
	TemplateSlideID string `json:"template_slide_id"`
	PagesGenerated  int    `json:"pages_generated"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
}

// JobRecord is the persisted state of one generation job. RequestData holds
// the submitted request JSON verbatim so a job can be inspected or replayed;
// slide results are serialized alongside it.
type JobRecord struct {
	ID           string              `json:"id"`
	TemplateID   string              `json:"template_id"`
	Status       string              `json:"status"`
	Progress     int                 `json:"progress"`
	RequestData  string              `json:"request_data,omitempty"`
	SlideResults []SlideResultRecord `json:"slide_results"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
}

// JobService provides methods for persisting generation jobs
type JobService struct {
	db *sql.DB
}

// NewJobService creates a new JobService instance
func NewJobService(db *sql.DB) *JobService {
	return &JobService{
		db: db,
	}
}

// CreateJob inserts a new job row. A missing ID is generated; status and
// timestamps are initialized here so callers only supply the request.
func (s *JobService) CreateJob(record JobRecord) (*JobRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if record.TemplateID == "" {
		return nil, fmt.Errorf("templateID is required")
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Status == "" {
		record.Status = "pending"
	}
	now := time.Now().UnixMilli()
	if record.CreatedAt == 0 {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	results, err := json.Marshal(record.SlideResults)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize slide results: %w", err)
	}

	query := `
		INSERT INTO generation_jobs (id, template_id, status, progress, request_data, slide_results, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query, record.ID, record.TemplateID, record.Status, record.Progress,
		record.RequestData, string(results), record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	return &record, nil
}

// UpdateJob overwrites the mutable fields of an existing job row.
func (s *JobService) UpdateJob(record JobRecord) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if record.ID == "" {
		return fmt.Errorf("job id is required")
	}

	results, err := json.Marshal(record.SlideResults)
	if err != nil {
		return fmt.Errorf("failed to serialize slide results: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE generation_jobs
		SET status = ?, progress = ?, slide_results = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := tx.Exec(query, record.Status, record.Progress, string(results), time.Now().UnixMilli(), record.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no job found with id: %s", record.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetJob loads one job row by id.
func (s *JobService) GetJob(id string) (*JobRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if id == "" {
		return nil, fmt.Errorf("job id is required")
	}

	var record JobRecord
	var results string
	query := `
		SELECT id, template_id, status, progress, request_data, slide_results, created_at, updated_at
		FROM generation_jobs
		WHERE id = ?
	`
	err := s.db.QueryRow(query, id).Scan(&record.ID, &record.TemplateID, &record.Status,
		&record.Progress, &record.RequestData, &results, &record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no job found with id: %s", id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to query job: %w", err)
	}

	if err := json.Unmarshal([]byte(results), &record.SlideResults); err != nil {
		return nil, fmt.Errorf("failed to deserialize slide results: %w", err)
	}
	return &record, nil
}

// SaveArtifact stores the finished .pptx bytes on the job row.
func (s *JobService) SaveArtifact(id string, artifact []byte) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if id == "" {
		return fmt.Errorf("job id is required")
	}
	if len(artifact) == 0 {
		return fmt.Errorf("artifact is empty")
	}

	res, err := s.db.Exec("UPDATE generation_jobs SET artifact = ?, updated_at = ? WHERE id = ?",
		artifact, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no job found with id: %s", id)
	}
	return nil
}

// GetArtifact loads the finished .pptx bytes for a job, or an error when
// the job has produced none yet.
func (s *JobService) GetArtifact(id string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if id == "" {
		return nil, fmt.Errorf("job id is required")
	}

	var artifact []byte
	err := s.db.QueryRow("SELECT artifact FROM generation_jobs WHERE id = ?", id).Scan(&artifact)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no job found with id: %s", id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to query artifact: %w", err)
	}
	if len(artifact) == 0 {
		return nil, fmt.Errorf("job %s has no artifact", id)
	}
	return artifact, nil
}

// ListJobs returns the newest jobs first, up to limit (0 means all).
// Artifacts and request bodies are not loaded here.
func (s *JobService) ListJobs(limit int) ([]JobRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, template_id, status, progress, slide_results, created_at, updated_at
		FROM generation_jobs
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var record JobRecord
		var results string
		if err := rows.Scan(&record.ID, &record.TemplateID, &record.Status, &record.Progress,
			&results, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		if err := json.Unmarshal([]byte(results), &record.SlideResults); err != nil {
			return nil, fmt.Errorf("failed to deserialize slide results: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return records, nil
}
