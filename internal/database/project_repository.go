package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// ErrProjectNotFound is returned when a project id does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository reads project records.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Get returns the project with the given id.
func (r *ProjectRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT id, brand_name FROM projects WHERE id = $1`

	var project domain.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}
