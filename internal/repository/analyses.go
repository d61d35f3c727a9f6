package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/jmoiron/sqlx"
)

type AnalysisRepository interface {
	Save(ctx context.Context, analysis *models.DocumentAnalysis) error
	GetByID(ctx context.Context, id int64) (*models.DocumentAnalysis, error)
	// GetByDocumentID returns the most recent analysis for a document,
	// or nil when none exists.
	GetByDocumentID(ctx context.Context, documentID int64) (*models.DocumentAnalysis, error)
	ListByDocumentID(ctx context.Context, documentID int64) ([]*models.DocumentAnalysis, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type analysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

type analysisRow struct {
	ID            int64      `db:"id"`
	DocumentID    int64      `db:"document_id"`
	Summary       string     `db:"summary"`
	MissingTopics string     `db:"missing_topics"`
	Insights      string     `db:"insights"`
	AnalyzedAt    *time.Time `db:"analyzed_at"`
}

func (row *analysisRow) toModel() (*models.DocumentAnalysis, error) {
	analysis := &models.DocumentAnalysis{
		ID:         row.ID,
		DocumentID: row.DocumentID,
		Summary:    row.Summary,
		AnalyzedAt: row.AnalyzedAt,
	}

	if err := json.Unmarshal([]byte(row.MissingTopics), &analysis.MissingTopics); err != nil {
		return nil, fmt.Errorf("failed to decode missing_topics: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Insights), &analysis.Insights); err != nil {
		return nil, fmt.Errorf("failed to decode insights: %w", err)
	}

	return analysis, nil
}

func (r *analysisRepository) Save(ctx context.Context, analysis *models.DocumentAnalysis) error {
	missingTopics, err := json.Marshal(analysis.MissingTopics)
	if err != nil {
		return fmt.Errorf("failed to encode missing_topics: %w", err)
	}
	insights, err := json.Marshal(analysis.Insights)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	if analysis.ID != 0 {
		query := `
			UPDATE document_analyses
			SET document_id = ?, summary = ?, missing_topics = ?, insights = ?, analyzed_at = ?
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query,
			analysis.DocumentID, analysis.Summary,
			string(missingTopics), string(insights), analysis.AnalyzedAt,
			analysis.ID,
		)
		return err
	}

	query := `
		INSERT INTO document_analyses (document_id, summary, missing_topics, insights, analyzed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		analysis.DocumentID, analysis.Summary,
		string(missingTopics), string(insights), analysis.AnalyzedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	analysis.ID = id

	return nil
}

func (r *analysisRepository) GetByID(ctx context.Context, id int64) (*models.DocumentAnalysis, error) {
	var row analysisRow

	query := `
		SELECT id, document_id, summary, missing_topics, insights, analyzed_at
		FROM document_analyses
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *analysisRepository) GetByDocumentID(ctx context.Context, documentID int64) (*models.DocumentAnalysis, error) {
	var row analysisRow

	query := `
		SELECT id, document_id, summary, missing_topics, insights, analyzed_at
		FROM document_analyses
		WHERE document_id = ?
		ORDER BY analyzed_at DESC, id DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &row, query, documentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *analysisRepository) ListByDocumentID(ctx context.Context, documentID int64) ([]*models.DocumentAnalysis, error) {
	var rows []analysisRow

	query := `
		SELECT id, document_id, summary, missing_topics, insights, analyzed_at
		FROM document_analyses
		WHERE document_id = ?
		ORDER BY analyzed_at DESC, id DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, documentID); err != nil {
		return nil, err
	}

	analyses := make([]*models.DocumentAnalysis, 0, len(rows))
	for i := range rows {
		analysis, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return analyses, nil
}

func (r *analysisRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_analyses WHERE id = ?`, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
