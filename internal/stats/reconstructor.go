package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// Reconstructor recomputes per-day per-entity counters directly from the raw
// event tables. It is the whole-range fallback when the rollup is unusable.
type Reconstructor struct {
	events      EventReader
	competitors CompetitorReader
	projects    ProjectReader
	log         logger.Logger
}

// NewReconstructor creates a Reconstructor.
func NewReconstructor(
	events EventReader,
	competitors CompetitorReader,
	projects ProjectReader,
	log logger.Logger,
) *Reconstructor {
	return &Reconstructor{
		events:      events,
		competitors: competitors,
		projects:    projects,
		log:         log,
	}
}

// Reconstruct counts raw mention/citation events for every calendar day in
// the inclusive range and emits one row per (entity, day) pair, zero-filled
// for days and entities with no activity. The output is always dense:
// exactly (days) x (1 + active competitors) rows, so callers can build a
// complete time series without inferring missing days.
//
// The entity set is fixed at call time: the brand plus the currently active
// competitors. Events attributable to competitors deactivated mid-range are
// not rebuilt; this mirrors the supplement path and is a documented
// approximation, not a defect.
func (r *Reconstructor) Reconstruct(
	ctx context.Context,
	projectID uuid.UUID,
	dateRange domain.DateRange,
) ([]domain.DailyStat, error) {
	project, err := r.projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	competitors, err := r.competitors.ListActive(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	counts, err := r.events.CountDailyEvents(ctx, projectID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	activeIDs := make(map[uuid.UUID]bool, len(competitors))
	for _, c := range competitors {
		activeIDs[c.ID] = true
	}

	counted := make(map[domain.StatKey]domain.DayEntityCount, len(counts))
	for _, c := range counts {
		entity := c.Entity()
		// Drop buckets for entities outside the fixed set; they belong to
		// competitors no longer active.
		if entity.Type == domain.EntityTypeCompetitor && !activeIDs[entity.CompetitorID] {
			continue
		}
		counted[domain.StatKey{Entity: entity, Date: c.Day}] = c
	}

	days := domain.DaysInRange(dateRange.Start, dateRange.End)
	stats := make([]domain.DailyStat, 0, days*(1+len(competitors)))

	day := dateRange.Start
	for i := 0; i < days; i++ {
		stats = append(stats, r.buildRow(project.BrandName, domain.Brand(), day, counted))
		for _, c := range competitors {
			stats = append(stats, r.buildRow(c.Name, domain.CompetitorRef(c.ID), day, counted))
		}
		day = day.Next()
	}

	r.log.Debug("Reconstructed daily stats from raw events",
		logger.String("project_id", projectID.String()),
		logger.String("start", dateRange.Start.String()),
		logger.String("end", dateRange.End.String()),
		logger.Int("rows", len(stats)),
	)

	return stats, nil
}

// buildRow emits one dense row for an entity/day pair, zero-valued when no
// bucket was counted.
func (r *Reconstructor) buildRow(
	name string,
	entity domain.EntityRef,
	day domain.Date,
	counted map[domain.StatKey]domain.DayEntityCount,
) domain.DailyStat {
	stat := domain.DailyStat{
		StatDate:   day,
		EntityType: entity.Type,
		EntityName: name,
	}
	if entity.Type == domain.EntityTypeCompetitor {
		id := entity.CompetitorID
		stat.CompetitorID = &id
	}

	if bucket, ok := counted[domain.StatKey{Entity: entity, Date: day}]; ok {
		stat.MentionsCount = bucket.Mentions
		stat.CitationsCount = bucket.Citations
		stat.ResponsesAnalyzed = bucket.Responses
	}

	return stat
}
