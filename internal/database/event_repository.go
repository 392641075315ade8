package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// EventRepository reads the raw mention and citation tables written by the
// ingestion pipeline. All methods are side-effect-free reads.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// dayCountRow mirrors one GROUP BY bucket for scanning.
type dayCountRow struct {
	Day          time.Time     `db:"day"`
	EntityType   string        `db:"entity_type"`
	CompetitorID uuid.NullUUID `db:"competitor_id"`
	Events       int           `db:"events"`
	Responses    int           `db:"responses"`
}

func (r dayCountRow) entity() domain.EntityRef {
	if domain.EntityType(r.EntityType) == domain.EntityTypeCompetitor && r.CompetitorID.Valid {
		return domain.CompetitorRef(r.CompetitorID.UUID)
	}
	return domain.Brand()
}

// CountDailyEvents counts mention and citation events per calendar day per
// entity across the inclusive range. Days and entities with no activity are
// absent from the result; the reconstruction layer densifies.
func (r *EventRepository) CountDailyEvents(
	ctx context.Context,
	projectID uuid.UUID,
	dateRange domain.DateRange,
) ([]domain.DayEntityCount, error) {
	from := dateRange.Start.Time()
	until := dateRange.End.Next().Time()

	mentions, err := r.countTable(ctx, "mentions", projectID, from, until, true)
	if err != nil {
		return nil, err
	}

	citations, err := r.countTable(ctx, "citations", projectID, from, until, false)
	if err != nil {
		return nil, err
	}

	return mergeDayCounts(mentions, citations), nil
}

// countTable runs the per-day GROUP BY over one event table. Distinct
// originating prompts are counted only for mentions; they define the
// responses-analyzed counter.
func (r *EventRepository) countTable(
	ctx context.Context,
	table string,
	projectID uuid.UUID,
	from, until time.Time,
	withResponses bool,
) ([]dayCountRow, error) {
	responsesExpr := "0"
	if withResponses {
		responsesExpr = "COUNT(DISTINCT query_id)"
	}

	// Day buckets follow UTC boundaries, matching domain.DateOf and the
	// stat_date semantics of the rollup table.
	query := fmt.Sprintf(`
		SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
		       entity_type, competitor_id,
		       COUNT(*) AS events,
		       %s AS responses
		FROM %s
		WHERE project_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day, entity_type, competitor_id`, responsesExpr, table)

	var rows []dayCountRow
	if err := r.db.SelectContext(ctx, &rows, query, projectID, from, until); err != nil {
		return nil, fmt.Errorf("failed to count %s by day: %w", table, err)
	}

	return rows, nil
}

// mergeDayCounts folds mention and citation buckets into one bucket per
// (day, entity) pair.
func mergeDayCounts(mentions, citations []dayCountRow) []domain.DayEntityCount {
	type bucketKey struct {
		day    domain.Date
		entity domain.EntityRef
	}

	merged := make(map[bucketKey]*domain.DayEntityCount)
	order := make([]bucketKey, 0, len(mentions)+len(citations))

	bucket := func(row dayCountRow) *domain.DayEntityCount {
		key := bucketKey{day: domain.DateOf(row.Day), entity: row.entity()}
		if b, ok := merged[key]; ok {
			return b
		}
		b := &domain.DayEntityCount{
			Day:        key.day,
			EntityType: domain.EntityType(row.EntityType),
		}
		if row.CompetitorID.Valid {
			id := row.CompetitorID.UUID
			b.CompetitorID = &id
		}
		merged[key] = b
		order = append(order, key)
		return b
	}

	for _, row := range mentions {
		b := bucket(row)
		b.Mentions += row.Events
		b.Responses += row.Responses
	}
	for _, row := range citations {
		b := bucket(row)
		b.Citations += row.Events
	}

	counts := make([]domain.DayEntityCount, 0, len(order))
	for _, key := range order {
		counts = append(counts, *merged[key])
	}

	return counts
}

// rawEventRow mirrors one event row joined through its originating prompt.
type rawEventRow struct {
	EntityType   string         `db:"entity_type"`
	CompetitorID uuid.NullUUID  `db:"competitor_id"`
	QueryID      uuid.NullUUID  `db:"query_id"`
	Platform     sql.NullString `db:"platform"`
	Region       sql.NullString `db:"region"`
	TopicID      uuid.NullUUID  `db:"topic_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r rawEventRow) toDomain(kind domain.EventKind) domain.RawEvent {
	event := domain.RawEvent{
		Kind:       kind,
		EntityType: domain.EntityType(r.EntityType),
		CreatedAt:  r.CreatedAt,
	}
	if r.CompetitorID.Valid {
		id := r.CompetitorID.UUID
		event.CompetitorID = &id
	}
	if r.QueryID.Valid {
		id := r.QueryID.UUID
		event.QueryID = &id
	}
	if r.Platform.Valid {
		p := r.Platform.String
		event.Platform = &p
	}
	if r.Region.Valid {
		reg := r.Region.String
		event.Region = &reg
	}
	if r.TopicID.Valid {
		id := r.TopicID.UUID
		event.TopicID = &id
	}
	return event
}

// ListEventsBetween returns every mention and citation event with
// createdAt in [from, until), each LEFT-JOINed through its originating prompt
// so the caller can resolve platform/region/topic. Events whose prompt was
// deleted come back with nil dimensions rather than being dropped here;
// strictness is the aggregation layer's decision.
func (r *EventRepository) ListEventsBetween(
	ctx context.Context,
	projectID uuid.UUID,
	from, until time.Time,
) ([]domain.RawEvent, error) {
	mentions, err := r.listTable(ctx, "mentions", domain.EventKindMention, projectID, from, until)
	if err != nil {
		return nil, err
	}

	citations, err := r.listTable(ctx, "citations", domain.EventKindCitation, projectID, from, until)
	if err != nil {
		return nil, err
	}

	return append(mentions, citations...), nil
}

// listTable reads one event table joined through prompts.
func (r *EventRepository) listTable(
	ctx context.Context,
	table string,
	kind domain.EventKind,
	projectID uuid.UUID,
	from, until time.Time,
) ([]domain.RawEvent, error) {
	query := fmt.Sprintf(`
		SELECT e.entity_type, e.competitor_id, e.query_id,
		       p.platform, p.region, p.topic_id,
		       e.created_at
		FROM %s e
		LEFT JOIN prompts p ON p.id = e.query_id
		WHERE e.project_id = $1 AND e.created_at >= $2 AND e.created_at < $3`, table)

	var rows []rawEventRow
	if err := r.db.SelectContext(ctx, &rows, query, projectID, from, until); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	events := make([]domain.RawEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain(kind))
	}

	return events, nil
}
