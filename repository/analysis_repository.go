package repository

import (
	"context"

	"finsight-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for analysis results
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create stores an analysis result bundle
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	query := `
		INSERT INTO analyses (
			document_id, document_text, ner, sentiment, clauses
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		analysis.DocumentID,
		analysis.DocumentText,
		analysis.NER,
		analysis.Sentiment,
		analysis.Clauses,
	).Scan(&analysis.ID, &analysis.CreatedAt)

	return err
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	analysis := &models.Analysis{}
	query := `
		SELECT id, document_id, document_text, ner, sentiment, clauses, created_at
		FROM analyses
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.DocumentText,
		&analysis.NER,
		&analysis.Sentiment,
		&analysis.Clauses,
		&analysis.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// GetByDocumentID retrieves the latest analysis for a document
func (r *AnalysisRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.Analysis, error) {
	analysis := &models.Analysis{}
	query := `
		SELECT id, document_id, document_text, ner, sentiment, clauses, created_at
		FROM analyses
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.DocumentText,
		&analysis.NER,
		&analysis.Sentiment,
		&analysis.Clauses,
		&analysis.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// Delete deletes an analysis record
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM analyses WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
