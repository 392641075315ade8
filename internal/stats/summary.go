package stats

import (
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// ReduceSummary collapses a multi-day counter set into one totals row per
// entity and merges the sentiment tallies in by entity identity. It is a
// pure function: reducing the same inputs twice yields the same result.
//
// Only entities present in the counter rows are emitted; sentiment for an
// entity without counter rows has nothing to attach to.
func ReduceSummary(
	stats []domain.DailyStat,
	tallies map[domain.EntityRef]*domain.SentimentTally,
) []domain.EntitySummary {
	totals := make(map[domain.EntityRef]*domain.EntitySummary)
	order := make([]domain.EntityRef, 0)

	for _, stat := range stats {
		entity := stat.Entity()
		summary, ok := totals[entity]
		if !ok {
			summary = &domain.EntitySummary{
				EntityType:   stat.EntityType,
				CompetitorID: stat.CompetitorID,
				EntityName:   stat.EntityName,
			}
			totals[entity] = summary
			order = append(order, entity)
		}
		summary.TotalMentions += stat.MentionsCount
		summary.TotalCitations += stat.CitationsCount
		if summary.EntityName == "" {
			summary.EntityName = stat.EntityName
		}
	}

	for entity, summary := range totals {
		tally, ok := tallies[entity]
		if !ok {
			continue
		}
		summary.Positive = tally.Positive
		summary.Neutral = tally.Neutral
		summary.Negative = tally.Negative
		summary.AvgSentiment = tally.AvgSentiment()
	}

	summaries := make([]domain.EntitySummary, 0, len(order))
	for _, entity := range order {
		summaries = append(summaries, *totals[entity])
	}

	return summaries
}
