package stats_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/stats"
)

func TestReduceSummary_TotalsAcrossDays(t *testing.T) {
	rivalID := uuid.New()

	rows := []domain.DailyStat{
		brandStat(t, "2024-05-01", 10, 4, 2),
		brandStat(t, "2024-05-02", 5, 1, 1),
		competitorStat(t, "2024-05-01", rivalID, 7),
	}

	summaries := stats.ReduceSummary(rows, nil)

	require.Len(t, summaries, 2)
	assert.Equal(t, 15, summaries[0].TotalMentions)
	assert.Equal(t, 5, summaries[0].TotalCitations)
	assert.Equal(t, 7, summaries[1].TotalMentions)
	assert.Equal(t, "Rival", summaries[1].EntityName)
}

func TestReduceSummary_MergesSentimentByEntity(t *testing.T) {
	rows := []domain.DailyStat{brandStat(t, "2024-05-01", 10, 0, 0)}
	tallies := map[domain.EntityRef]*domain.SentimentTally{
		domain.Brand(): {Positive: 2, Neutral: 0, Negative: 1, ScoreSum: 0.4},
	}

	summaries := stats.ReduceSummary(rows, tallies)

	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Positive)
	assert.Equal(t, 1, summaries[0].Negative)
	assert.InDelta(t, 1.0/3.0, summaries[0].AvgSentiment, 1e-9)
}

func TestReduceSummary_Idempotent(t *testing.T) {
	rivalID := uuid.New()
	rows := []domain.DailyStat{
		brandStat(t, "2024-05-01", 10, 4, 2),
		competitorStat(t, "2024-05-02", rivalID, 3),
	}
	tallies := map[domain.EntityRef]*domain.SentimentTally{
		domain.Brand(): {Positive: 1, Negative: 1},
	}

	first := stats.ReduceSummary(rows, tallies)
	second := stats.ReduceSummary(rows, tallies)

	assert.Equal(t, first, second)
}

func TestReduceSummary_AvgSentimentBounds(t *testing.T) {
	cases := []struct {
		name  string
		tally domain.SentimentTally
		want  float64
	}{
		{"all positive", domain.SentimentTally{Positive: 5}, 1},
		{"all negative", domain.SentimentTally{Negative: 5}, -1},
		{"balanced", domain.SentimentTally{Positive: 3, Negative: 3, Neutral: 2}, 0},
		{"empty", domain.SentimentTally{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := []domain.DailyStat{brandStat(t, "2024-05-01", 1, 0, 0)}
			tally := tc.tally
			summaries := stats.ReduceSummary(rows, map[domain.EntityRef]*domain.SentimentTally{
				domain.Brand(): &tally,
			})

			require.Len(t, summaries, 1)
			got := summaries[0].AvgSentiment
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestReduceSummary_DimensionTaggedRowsFoldIntoEntityTotals(t *testing.T) {
	platform := "chatgpt"
	other := "perplexity"

	rowA := brandStat(t, "2024-05-01", 4, 0, 0)
	rowA.Platform = &platform
	rowB := brandStat(t, "2024-05-01", 6, 0, 0)
	rowB.Platform = &other

	summaries := stats.ReduceSummary([]domain.DailyStat{rowA, rowB}, nil)

	require.Len(t, summaries, 1)
	assert.Equal(t, 10, summaries[0].TotalMentions)
}

func TestReduceSummary_Empty(t *testing.T) {
	assert.Empty(t, stats.ReduceSummary(nil, nil))
}
