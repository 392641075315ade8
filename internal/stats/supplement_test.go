package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/stats"
)

// fixedNow is noon UTC on the test day.
var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const testCutoffHour = 2

func newSupplement(
	rollup *fakeRollup,
	events *fakeEvents,
	competitors *fakeCompetitors,
) *stats.SupplementComputer {
	return stats.NewSupplementComputer(
		rollup, events, competitors, logger.NewNop(), testCutoffHour,
		func() time.Time { return fixedNow },
	)
}

func mention(at time.Time, queryID *uuid.UUID, platform, region *string, topicID *uuid.UUID) domain.RawEvent {
	return domain.RawEvent{
		Kind:       domain.EventKindMention,
		EntityType: domain.EntityTypeBrand,
		QueryID:    queryID,
		Platform:   platform,
		Region:     region,
		TopicID:    topicID,
		CreatedAt:  at,
	}
}

func strPtr(s string) *string { return &s }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestSupplement_UsesWatermarkWindow(t *testing.T) {
	watermark := time.Date(2024, 5, 1, 3, 30, 0, 0, time.UTC)
	queryID := uuid.New()

	events := &fakeEvents{events: []domain.RawEvent{
		// Before the watermark: already in the rollup, must not recount.
		mention(watermark.Add(-time.Hour), &queryID, nil, nil, nil),
		mention(watermark.Add(time.Hour), &queryID, nil, nil, nil),
		mention(watermark.Add(2*time.Hour), &queryID, nil, nil, nil),
	}}

	c := newSupplement(&fakeRollup{watermark: watermark}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	assert.Equal(t, watermark, events.gotFrom)
	assert.Equal(t, fixedNow, events.gotUntil)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].MentionsCount)
	assert.Equal(t, "2024-05-01", rows[0].StatDate.String())
}

func TestSupplement_FixedHourWhenNoWatermark(t *testing.T) {
	events := &fakeEvents{}
	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})

	_, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	want := time.Date(2024, 5, 1, testCutoffHour, 0, 0, 0, time.UTC)
	assert.Equal(t, want, events.gotFrom)
}

func TestSupplement_FixedHourAfterNowFallsBackToMidnight(t *testing.T) {
	// Before the rollup job's hour, the rollup holds nothing of today, so
	// the supplement must cover from midnight.
	events := &fakeEvents{}
	c := stats.NewSupplementComputer(
		&fakeRollup{}, events, &fakeCompetitors{}, logger.NewNop(), 14,
		func() time.Time { return fixedNow },
	)

	_, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), events.gotFrom)
}

func TestSupplement_WatermarkBeforeTodayClampsToMidnight(t *testing.T) {
	// The job last ran yesterday; nothing of today is in the rollup.
	events := &fakeEvents{}
	c := newSupplement(
		&fakeRollup{watermark: time.Date(2024, 4, 30, 2, 0, 0, 0, time.UTC)},
		events, &fakeCompetitors{},
	)

	_, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), events.gotFrom)
}

func TestSupplement_CoarsePathCountsPromptlessEvents(t *testing.T) {
	// Non-dimensional path: the originating prompt is gone but
	// entity identity is resolvable, so the event still counts.
	at := fixedNow.Add(-time.Hour)

	events := &fakeEvents{events: []domain.RawEvent{
		mention(at, nil, nil, nil, nil),
		mention(at, uuidPtr(uuid.New()), strPtr("chatgpt"), strPtr("us"), uuidPtr(uuid.New())),
	}}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].MentionsCount)
	assert.Nil(t, rows[0].Platform)
}

func TestSupplement_FilteredPathDropsPromptlessEvents(t *testing.T) {
	// Dimension-filtered path: the unresolvable event must not
	// leak into any filtered bucket.
	at := fixedNow.Add(-time.Hour)
	topicID := uuid.New()

	events := &fakeEvents{events: []domain.RawEvent{
		mention(at, nil, nil, nil, nil),
		mention(at, uuidPtr(uuid.New()), strPtr("chatgpt"), strPtr("us"), uuidPtr(topicID)),
		mention(at, uuidPtr(uuid.New()), strPtr("perplexity"), strPtr("us"), uuidPtr(topicID)),
	}}

	filter := domain.DimensionFilter{Platform: domain.FilterEq("chatgpt")}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].MentionsCount)
	require.NotNil(t, rows[0].Platform)
	assert.Equal(t, "chatgpt", *rows[0].Platform)
	assert.Nil(t, rows[0].Region)
	assert.Nil(t, rows[0].TopicID)
}

func TestSupplement_FilteredPathCountsTopiclessPrompts(t *testing.T) {
	// A prompt's topic is nullable, so an event can resolve its prompt yet
	// carry no topic. A platform filter must still count it.
	at := fixedNow.Add(-time.Hour)

	events := &fakeEvents{events: []domain.RawEvent{
		mention(at, uuidPtr(uuid.New()), strPtr("chatgpt"), strPtr("us"), nil),
		mention(at, uuidPtr(uuid.New()), strPtr("perplexity"), strPtr("us"), nil),
	}}

	filter := domain.DimensionFilter{Platform: domain.FilterEq("chatgpt")}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].MentionsCount)
	require.NotNil(t, rows[0].Platform)
	assert.Equal(t, "chatgpt", *rows[0].Platform)
	assert.Nil(t, rows[0].TopicID)
}

func TestSupplement_TagsOnlyFilteredAxes(t *testing.T) {
	// Under a platform-only filter, events differing on unfiltered axes fold
	// into one bucket and the row carries no region or topic tags.
	at := fixedNow.Add(-time.Hour)

	events := &fakeEvents{events: []domain.RawEvent{
		mention(at, uuidPtr(uuid.New()), strPtr("chatgpt"), strPtr("us"), uuidPtr(uuid.New())),
		mention(at, uuidPtr(uuid.New()), strPtr("chatgpt"), strPtr("de"), uuidPtr(uuid.New())),
	}}

	filter := domain.DimensionFilter{Platform: domain.FilterEq("chatgpt")}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), filter)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].MentionsCount)
	require.NotNil(t, rows[0].Platform)
	assert.Equal(t, "chatgpt", *rows[0].Platform)
	assert.Nil(t, rows[0].Region)
	assert.Nil(t, rows[0].TopicID)
}

func TestSupplement_DropsDeactivatedCompetitorEvents(t *testing.T) {
	at := fixedNow.Add(-time.Hour)
	activeID := uuid.New()
	ghostID := uuid.New()

	competitorMention := func(id uuid.UUID) domain.RawEvent {
		return domain.RawEvent{
			Kind:         domain.EventKindMention,
			EntityType:   domain.EntityTypeCompetitor,
			CompetitorID: &id,
			CreatedAt:    at,
		}
	}

	events := &fakeEvents{events: []domain.RawEvent{
		competitorMention(activeID),
		competitorMention(ghostID),
	}}
	competitors := &fakeCompetitors{competitors: []domain.Competitor{
		{ID: activeID, Name: "Rival", IsActive: true},
	}}

	c := newSupplement(&fakeRollup{}, events, competitors)
	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CompetitorID)
	assert.Equal(t, activeID, *rows[0].CompetitorID)
	assert.Equal(t, "Rival", rows[0].EntityName)
}

func TestSupplement_CountsDistinctQueriesAsResponses(t *testing.T) {
	at := fixedNow.Add(-time.Hour)
	queryA := uuid.New()
	queryB := uuid.New()

	events := &fakeEvents{events: []domain.RawEvent{
		mention(at, &queryA, nil, nil, nil),
		mention(at, &queryA, nil, nil, nil),
		mention(at, &queryB, nil, nil, nil),
	}}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].MentionsCount)
	assert.Equal(t, 2, rows[0].ResponsesAnalyzed)
}

func TestSupplement_CitationsCounted(t *testing.T) {
	at := fixedNow.Add(-time.Hour)

	events := &fakeEvents{events: []domain.RawEvent{
		{Kind: domain.EventKindCitation, EntityType: domain.EntityTypeBrand, CreatedAt: at},
		{Kind: domain.EventKindCitation, EntityType: domain.EntityTypeBrand, CreatedAt: at},
	}}

	c := newSupplement(&fakeRollup{}, events, &fakeCompetitors{})
	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].CitationsCount)
	assert.Zero(t, rows[0].MentionsCount)
}

func TestSupplement_NoEventsReturnsNothing(t *testing.T) {
	c := newSupplement(&fakeRollup{}, &fakeEvents{}, &fakeCompetitors{})

	rows, err := c.Compute(context.Background(), uuid.New(), domain.DimensionFilter{})

	require.NoError(t, err)
	assert.Empty(t, rows)
}
