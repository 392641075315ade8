// Package stats is the daily metrics aggregation and real-time merge engine.
// It combines the nightly pre-aggregated rollup with an on-demand real-time
// computation for the partial "today" window, and reconstructs whole ranges
// directly from raw events when the rollup is unusable.
package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// RollupReader reads the nightly pre-aggregated counters and the rollup
// watermark. Implemented by database.RollupRepository.
type RollupReader interface {
	GetDailyStats(
		ctx context.Context,
		projectID uuid.UUID,
		dateRange domain.DateRange,
		filter domain.DimensionFilter,
	) ([]domain.DailyStat, error)
	GetWatermark(ctx context.Context, projectID uuid.UUID) (time.Time, error)
}

// EventReader reads the raw mention and citation tables. Implemented by
// database.EventRepository.
type EventReader interface {
	CountDailyEvents(
		ctx context.Context,
		projectID uuid.UUID,
		dateRange domain.DateRange,
	) ([]domain.DayEntityCount, error)
	ListEventsBetween(
		ctx context.Context,
		projectID uuid.UUID,
		from, until time.Time,
	) ([]domain.RawEvent, error)
}

// SentimentReader reads sentiment evaluations. Implemented by
// database.SentimentRepository.
type SentimentReader interface {
	ListEvaluations(
		ctx context.Context,
		projectID uuid.UUID,
		from, until time.Time,
	) ([]domain.SentimentEvaluation, error)
}

// CompetitorReader lists a project's active competitors. Implemented by
// database.CompetitorRepository.
type CompetitorReader interface {
	ListActive(ctx context.Context, projectID uuid.UUID) ([]domain.Competitor, error)
}

// ProjectReader reads project records. Implemented by
// database.ProjectRepository.
type ProjectReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Project, error)
}
