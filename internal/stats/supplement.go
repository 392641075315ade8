package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/database"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// SupplementComputer recomputes counters for the slice of "today" the nightly
// rollup has not seen yet. The nightly job runs once per day, so events from
// its run onward never appear in the rollup on the same day; querying today
// through the rollup alone under-counts.
type SupplementComputer struct {
	rollup      RollupReader
	events      EventReader
	competitors CompetitorReader
	log         logger.Logger
	now         func() time.Time
	cutoffHour  int
}

// NewSupplementComputer creates a SupplementComputer. cutoffHour is the UTC
// hour of the assumed nightly rollup run, used only when the project has no
// stored watermark. now is injectable for tests; pass nil for time.Now.
func NewSupplementComputer(
	rollup RollupReader,
	events EventReader,
	competitors CompetitorReader,
	log logger.Logger,
	cutoffHour int,
	now func() time.Time,
) *SupplementComputer {
	if now == nil {
		now = time.Now
	}
	return &SupplementComputer{
		rollup:      rollup,
		events:      events,
		competitors: competitors,
		log:         log,
		now:         now,
		cutoffHour:  cutoffHour,
	}
}

// dimensionKey is the accumulation key of the supplement path: entity
// identity plus the values of the filtered axes. Axes the request did not
// filter on stay at their zero value and never split buckets.
type dimensionKey struct {
	entity   domain.EntityRef
	platform string
	region   string
	topicID  uuid.UUID
}

// supplementBucket accumulates counters for one dimension key.
type supplementBucket struct {
	name      string
	mentions  int
	citations int
	queries   map[uuid.UUID]bool
}

// Compute counts events created in [cutoff, now), restricted to the current
// calendar day, filtered by the requested dimensions. Output is sparse: a
// missing key means zero, and the caller only adds these rows onto rollup
// values for the same day.
//
// Strictness differs by path on purpose. With a dimension filter set, events
// that cannot be resolved on a filtered axis are discarded; an unresolvable
// value must not leak into a filtered bucket. Axes the caller did not filter
// on are ignored, so a prompt without a topic still counts under a platform
// filter. With no filter set, entity identity alone is enough and prompt-less
// events still count.
func (c *SupplementComputer) Compute(
	ctx context.Context,
	projectID uuid.UUID,
	filter domain.DimensionFilter,
) ([]domain.DailyStat, error) {
	now := c.now().UTC()
	today := domain.DateOf(now)

	from := c.cutoffInstant(ctx, projectID, now)
	if !from.Before(now) {
		return nil, nil
	}

	events, err := c.events.ListEventsBetween(ctx, projectID, from, now)
	if err != nil {
		return nil, fmt.Errorf("compute today supplement: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	competitors, err := c.competitors.ListActive(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("compute today supplement: %w", err)
	}

	activeNames := make(map[uuid.UUID]string, len(competitors))
	for _, comp := range competitors {
		activeNames[comp.ID] = comp.Name
	}

	buckets, order := c.accumulate(events, filter, activeNames)

	stats := make([]domain.DailyStat, 0, len(order))
	for _, key := range order {
		stats = append(stats, buildSupplementRow(today, key, buckets[key], filter))
	}

	c.log.Debug("Computed today supplement",
		logger.String("project_id", projectID.String()),
		logger.Time("cutoff", from),
		logger.Int("events", len(events)),
		logger.Int("rows", len(stats)),
	)

	return stats, nil
}

// cutoffInstant resolves the rollup-freshness boundary for today. The stored
// watermark is authoritative when present; otherwise the configured fixed
// hour stands in. Either way the result is clamped into the current calendar
// day: the rollup never contains any of today before its daily run, so a
// boundary earlier than midnight would double-count yesterday and one later
// than now would drop fresh events.
func (c *SupplementComputer) cutoffInstant(
	ctx context.Context,
	projectID uuid.UUID,
	now time.Time,
) time.Time {
	startOfToday := domain.DateOf(now).Time()

	watermark, err := c.rollup.GetWatermark(ctx, projectID)
	if err != nil {
		if !errors.Is(err, database.ErrNoWatermark) {
			c.log.Warn("Failed to read rollup watermark, using fixed cutoff hour",
				logger.String("project_id", projectID.String()),
				logger.Error(err),
			)
		}
		fixed := startOfToday.Add(time.Duration(c.cutoffHour) * time.Hour)
		if fixed.After(now) {
			// The rollup job has not run yet today, so the rollup holds
			// nothing of today at all.
			return startOfToday
		}
		return fixed
	}

	if watermark.Before(startOfToday) {
		return startOfToday
	}
	return watermark
}

// accumulate folds events into dimension-keyed buckets, applying the
// per-path strictness rules.
func (c *SupplementComputer) accumulate(
	events []domain.RawEvent,
	filter domain.DimensionFilter,
	activeNames map[uuid.UUID]string,
) (map[dimensionKey]*supplementBucket, []dimensionKey) {
	buckets := make(map[dimensionKey]*supplementBucket)
	order := make([]dimensionKey, 0)
	dropped := 0

	for _, event := range events {
		entity, name, ok := resolveEntity(event, activeNames)
		if !ok {
			// Mentions of deactivated competitors are dropped on this path.
			continue
		}

		key, ok := c.bucketKey(event, entity, filter)
		if !ok {
			dropped++
			continue
		}

		bucket, exists := buckets[key]
		if !exists {
			bucket = &supplementBucket{name: name, queries: make(map[uuid.UUID]bool)}
			buckets[key] = bucket
			order = append(order, key)
		}

		switch event.Kind {
		case domain.EventKindMention:
			bucket.mentions++
			if event.QueryID != nil {
				bucket.queries[*event.QueryID] = true
			}
		case domain.EventKindCitation:
			bucket.citations++
		}
	}

	if dropped > 0 {
		c.log.Debug("Dropped events failing dimension resolution or filters",
			logger.Int("dropped", dropped),
		)
	}

	return buckets, order
}

// bucketKey resolves the accumulation key for an event, or reports that the
// event must be discarded.
func (c *SupplementComputer) bucketKey(
	event domain.RawEvent,
	entity domain.EntityRef,
	filter domain.DimensionFilter,
) (dimensionKey, bool) {
	if filter.IsZero() {
		// Coarse path: entity identity is the whole key.
		return dimensionKey{entity: entity}, true
	}

	// Dimension-aware path: every set filter must match. Matches rejects nil
	// under a set filter, so an event unresolvable on a filtered axis fails
	// here, while an axis the caller never filtered on cannot disqualify it.
	// The schema makes this matter: a prompt always has platform and region
	// but its topic is nullable.
	if !filter.Platform.Matches(event.Platform) ||
		!filter.Region.Matches(event.Region) ||
		!filter.Topic.Matches(event.TopicID) {
		return dimensionKey{}, false
	}

	key := dimensionKey{entity: entity}
	if filter.Platform.IsSet() {
		key.platform = *event.Platform
	}
	if filter.Region.IsSet() {
		key.region = *event.Region
	}
	if filter.Topic.IsSet() {
		key.topicID = *event.TopicID
	}
	return key, true
}

// resolveEntity maps an event to the brand or a currently active competitor.
func resolveEntity(
	event domain.RawEvent,
	activeNames map[uuid.UUID]string,
) (domain.EntityRef, string, bool) {
	entity := event.Entity()
	if entity.IsBrand() {
		return entity, "", true
	}

	name, active := activeNames[entity.CompetitorID]
	if !active {
		return domain.EntityRef{}, "", false
	}
	return entity, name, true
}

// buildSupplementRow emits one row for a populated bucket, dated today and
// tagged only with the axes the request filtered on. Unfiltered axes stay
// untagged, mirroring the rollup's NULL-pinned columns, so a tag on the
// merged output always means "filtered by this".
func buildSupplementRow(
	today domain.Date,
	key dimensionKey,
	bucket *supplementBucket,
	filter domain.DimensionFilter,
) domain.DailyStat {
	stat := domain.DailyStat{
		StatDate:          today,
		EntityType:        key.entity.Type,
		EntityName:        bucket.name,
		MentionsCount:     bucket.mentions,
		CitationsCount:    bucket.citations,
		ResponsesAnalyzed: len(bucket.queries),
	}
	if key.entity.Type == domain.EntityTypeCompetitor {
		id := key.entity.CompetitorID
		stat.CompetitorID = &id
	}
	if filter.Platform.IsSet() {
		platform := key.platform
		stat.Platform = &platform
	}
	if filter.Region.IsSet() {
		region := key.region
		stat.Region = &region
	}
	if filter.Topic.IsSet() {
		topicID := key.topicID
		stat.TopicID = &topicID
	}
	return stat
}
