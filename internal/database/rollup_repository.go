package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// ErrNoWatermark is returned when a project has no rollup watermark row.
// Callers should check with errors.Is() and fall back to the configured
// cutoff hour.
var ErrNoWatermark = errors.New("no rollup watermark for project")

// RollupRepository reads the nightly pre-aggregated daily_stats table.
// It is read-only; the rollup job owns all writes.
type RollupRepository struct {
	db *sqlx.DB
}

// NewRollupRepository creates a new rollup repository.
func NewRollupRepository(db *sqlx.DB) *RollupRepository {
	return &RollupRepository{db: db}
}

// dailyStatRow mirrors one daily_stats row for scanning.
type dailyStatRow struct {
	StatDate          time.Time      `db:"stat_date"`
	EntityType        string         `db:"entity_type"`
	CompetitorID      uuid.NullUUID  `db:"competitor_id"`
	EntityName        string         `db:"entity_name"`
	MentionsCount     int            `db:"mentions_count"`
	CitationsCount    int            `db:"citations_count"`
	ResponsesAnalyzed int            `db:"responses_analyzed"`
	Platform          sql.NullString `db:"platform"`
	Region            sql.NullString `db:"region"`
	TopicID           uuid.NullUUID  `db:"topic_id"`
}

// toDomain converts a scanned row to a domain.DailyStat.
func (r dailyStatRow) toDomain() domain.DailyStat {
	stat := domain.DailyStat{
		StatDate:          domain.DateOf(r.StatDate),
		EntityType:        domain.EntityType(r.EntityType),
		EntityName:        r.EntityName,
		MentionsCount:     r.MentionsCount,
		CitationsCount:    r.CitationsCount,
		ResponsesAnalyzed: r.ResponsesAnalyzed,
	}
	if r.CompetitorID.Valid {
		id := r.CompetitorID.UUID
		stat.CompetitorID = &id
	}
	if r.Platform.Valid {
		p := r.Platform.String
		stat.Platform = &p
	}
	if r.Region.Valid {
		reg := r.Region.String
		stat.Region = &reg
	}
	if r.TopicID.Valid {
		id := r.TopicID.UUID
		stat.TopicID = &id
	}
	return stat
}

// GetDailyStats returns the rollup rows for every day in the inclusive range,
// clipped to existing rollup data. When the filter is zero only the coarse
// (untagged) rows are returned, so dimension-tagged and untagged rows are
// never mixed into one result.
func (r *RollupRepository) GetDailyStats(
	ctx context.Context,
	projectID uuid.UUID,
	dateRange domain.DateRange,
	filter domain.DimensionFilter,
) ([]domain.DailyStat, error) {
	query, args := buildDailyStatsQuery(projectID, dateRange, filter)

	var rows []dailyStatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read daily stats rollup: %w", err)
	}

	stats := make([]domain.DailyStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, row.toDomain())
	}

	return stats, nil
}

// buildDailyStatsQuery assembles the rollup SELECT with the dimension
// predicates the request actually carries.
func buildDailyStatsQuery(
	projectID uuid.UUID,
	dateRange domain.DateRange,
	filter domain.DimensionFilter,
) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT stat_date, entity_type, competitor_id, entity_name,
		       mentions_count, citations_count, responses_analyzed,
		       platform, region, topic_id
		FROM daily_stats
		WHERE project_id = $1 AND stat_date >= $2 AND stat_date <= $3`)

	args := []any{projectID, dateRange.Start.Time(), dateRange.End.Time()}

	if platform, ok := filter.Platform.Value(); ok {
		args = append(args, platform)
		fmt.Fprintf(&sb, " AND platform = $%d", len(args))
	} else {
		sb.WriteString(" AND platform IS NULL")
	}

	if region, ok := filter.Region.Value(); ok {
		args = append(args, region)
		fmt.Fprintf(&sb, " AND region = $%d", len(args))
	} else {
		sb.WriteString(" AND region IS NULL")
	}

	if topicID, ok := filter.Topic.Value(); ok {
		args = append(args, topicID)
		fmt.Fprintf(&sb, " AND topic_id = $%d", len(args))
	} else {
		sb.WriteString(" AND topic_id IS NULL")
	}

	sb.WriteString(" ORDER BY stat_date, entity_type, competitor_id")

	return sb.String(), args
}

// GetWatermark returns the instant through which the rollup has been computed
// for the project. Returns ErrNoWatermark when the rollup job has never
// recorded one.
func (r *RollupRepository) GetWatermark(ctx context.Context, projectID uuid.UUID) (time.Time, error) {
	query := `SELECT computed_through FROM rollup_watermarks WHERE project_id = $1`

	var watermark time.Time
	err := r.db.GetContext(ctx, &watermark, query, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNoWatermark
		}
		return time.Time{}, fmt.Errorf("failed to read rollup watermark: %w", err)
	}

	return watermark, nil
}
