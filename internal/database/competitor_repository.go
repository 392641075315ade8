package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// CompetitorRepository reads the tracked-competitor list for a project.
type CompetitorRepository struct {
	db *sqlx.DB
}

// NewCompetitorRepository creates a new competitor repository.
func NewCompetitorRepository(db *sqlx.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

// ListActive returns the currently active competitors for the project,
// ordered by name. Deactivated competitors are excluded; reconstruction and
// supplement paths only attribute events to active competitors.
func (r *CompetitorRepository) ListActive(
	ctx context.Context,
	projectID uuid.UUID,
) ([]domain.Competitor, error) {
	query := `
		SELECT id, name, domain, is_active
		FROM competitors
		WHERE project_id = $1 AND is_active = TRUE
		ORDER BY name`

	var competitors []domain.Competitor
	if err := r.db.SelectContext(ctx, &competitors, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list active competitors: %w", err)
	}

	return competitors, nil
}
