package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// SentimentAggregator groups sentiment evaluations by entity identity. It is
// independent of the daily counter rows entirely: the sentiment pipeline has
// its own source table and no day granularity, so its result only joins the
// counters at the final per-entity reduction.
type SentimentAggregator struct {
	sentiment SentimentReader
	log       logger.Logger
}

// NewSentimentAggregator creates a SentimentAggregator.
func NewSentimentAggregator(sentiment SentimentReader, log logger.Logger) *SentimentAggregator {
	return &SentimentAggregator{sentiment: sentiment, log: log}
}

// Aggregate reads the project's sentiment evaluations for the range and
// returns one tally per entity. The underlying read is capped by the
// repository's row limit to bound worst-case memory.
func (a *SentimentAggregator) Aggregate(
	ctx context.Context,
	projectID uuid.UUID,
	dateRange domain.DateRange,
) (map[domain.EntityRef]*domain.SentimentTally, error) {
	from := dateRange.Start.Time()
	until := dateRange.End.Next().Time()

	evaluations, err := a.sentiment.ListEvaluations(ctx, projectID, from, until)
	if err != nil {
		return nil, fmt.Errorf("aggregate sentiment: %w", err)
	}

	tallies := make(map[domain.EntityRef]*domain.SentimentTally)
	for _, eval := range evaluations {
		entity := eval.Entity()
		tally, ok := tallies[entity]
		if !ok {
			tally = &domain.SentimentTally{}
			tallies[entity] = tally
		}
		tally.Add(eval)
	}

	a.log.Debug("Aggregated sentiment evaluations",
		logger.String("project_id", projectID.String()),
		logger.Int("evaluations", len(evaluations)),
		logger.Int("entities", len(tallies)),
	)

	return tallies, nil
}
