package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// SentimentRepository reads the sentiment_evaluations table written by the
// sentiment pipeline. Reads are capped; the table is unbounded per project.
type SentimentRepository struct {
	db     *sqlx.DB
	rowCap int
}

// NewSentimentRepository creates a new sentiment repository. rowCap bounds
// every scan; values below 1 disable the repository rather than allowing an
// unbounded read.
func NewSentimentRepository(db *sqlx.DB, rowCap int) *SentimentRepository {
	return &SentimentRepository{db: db, rowCap: rowCap}
}

// sentimentRow mirrors one sentiment_evaluations row for scanning.
type sentimentRow struct {
	EntityType   string        `db:"entity_type"`
	CompetitorID uuid.NullUUID `db:"competitor_id"`
	Label        string        `db:"sentiment_label"`
	Rating       float64       `db:"sentiment_rating"`
	CreatedAt    time.Time     `db:"created_at"`
}

// ListEvaluations returns the sentiment evaluations for the project with
// createdAt in [from, until), newest first, capped at the repository's row
// limit.
func (r *SentimentRepository) ListEvaluations(
	ctx context.Context,
	projectID uuid.UUID,
	from, until time.Time,
) ([]domain.SentimentEvaluation, error) {
	query := `
		SELECT entity_type, competitor_id, sentiment_label, sentiment_rating, created_at
		FROM sentiment_evaluations
		WHERE project_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4`

	var rows []sentimentRow
	err := r.db.SelectContext(ctx, &rows, query, projectID, from, until, r.rowCap)
	if err != nil {
		return nil, fmt.Errorf("failed to list sentiment evaluations: %w", err)
	}

	evaluations := make([]domain.SentimentEvaluation, 0, len(rows))
	for _, row := range rows {
		eval := domain.SentimentEvaluation{
			EntityType: domain.EntityType(row.EntityType),
			Label:      domain.SentimentLabel(row.Label),
			Rating:     row.Rating,
			CreatedAt:  row.CreatedAt,
		}
		if row.CompetitorID.Valid {
			id := row.CompetitorID.UUID
			eval.CompetitorID = &id
		}
		evaluations = append(evaluations, eval)
	}

	return evaluations, nil
}
