package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// defaultRangeDays is the range length used when the caller supplies no
// start date.
const defaultRangeDays = 30

// StatsQuery describes one read request.
type StatsQuery struct {
	// Start and End bound the inclusive range. Nil values default to a
	// 30-day range ending today.
	Start *domain.Date
	End   *domain.Date
	// Filter restricts the supplement and rollup reads by dimension.
	Filter domain.DimensionFilter
}

// Deps wires the engine's collaborators.
type Deps struct {
	Rollup      RollupReader
	Events      EventReader
	Sentiment   SentimentReader
	Competitors CompetitorReader
	Projects    ProjectReader
	Logger      logger.Logger
	// CutoffHour is the UTC hour of the assumed nightly rollup run.
	CutoffHour int
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Service is the read-side reconciliation engine. It tries the cheap rollup
// first, keeps "today" fresh with a real-time supplement, and reconstructs
// whole ranges from raw events when the rollup read fails. It owns no
// background work; every entry point is one request-scoped unit of work.
type Service struct {
	rollup     RollupReader
	sentiment  *SentimentAggregator
	supplement *SupplementComputer
	reconstr   *Reconstructor
	log        logger.Logger
	now        func() time.Time
}

// NewService creates the engine from its dependencies.
func NewService(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		rollup: deps.Rollup,
		sentiment: NewSentimentAggregator(
			deps.Sentiment, deps.Logger,
		),
		supplement: NewSupplementComputer(
			deps.Rollup, deps.Events, deps.Competitors, deps.Logger, deps.CutoffHour, now,
		),
		reconstr: NewReconstructor(
			deps.Events, deps.Competitors, deps.Projects, deps.Logger,
		),
		log: deps.Logger,
		now: now,
	}
}

// resolveRange fills in the default range: end defaults to today, start to
// 29 days before end.
func (s *Service) resolveRange(q StatsQuery) domain.DateRange {
	end := domain.DateOf(s.now())
	if q.End != nil {
		end = *q.End
	}

	start := domain.DateOf(end.Time().AddDate(0, 0, -(defaultRangeDays - 1)))
	if q.Start != nil {
		start = *q.Start
	}

	return domain.DateRange{Start: start, End: end}
}

// GetDailyStats returns one counter row per entity per day for the requested
// range. The rollup is tried first over the whole range; on success and a
// range touching today, the post-cutoff supplement is merged in. A rollup
// read error is recovered by reconstructing the entire range from raw
// events; reconstruction errors propagate.
func (s *Service) GetDailyStats(
	ctx context.Context,
	projectID uuid.UUID,
	q StatsQuery,
) ([]domain.DailyStat, error) {
	dateRange := s.resolveRange(q)

	rollup, err := s.rollup.GetDailyStats(ctx, projectID, dateRange, q.Filter)
	if err != nil {
		// Recoverable: the rollup pipeline may have failed last night.
		// Rebuild the whole range, today included, directly from raw events.
		s.log.Warn("Rollup read failed, reconstructing range from raw events",
			logger.String("project_id", projectID.String()),
			logger.String("start", dateRange.Start.String()),
			logger.String("end", dateRange.End.String()),
			logger.Error(err),
		)
		return s.reconstr.Reconstruct(ctx, projectID, dateRange)
	}

	if !dateRange.Contains(domain.DateOf(s.now())) {
		return rollup, nil
	}

	supplement, err := s.supplement.Compute(ctx, projectID, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}

	return MergeDailyStats(rollup, supplement), nil
}

// GetMentionsSummary reduces the range's counter rows into one totals row
// per entity and merges the sentiment breakdown in by entity identity.
func (s *Service) GetMentionsSummary(
	ctx context.Context,
	projectID uuid.UUID,
	q StatsQuery,
) ([]domain.EntitySummary, error) {
	stats, err := s.GetDailyStats(ctx, projectID, q)
	if err != nil {
		return nil, err
	}

	tallies, err := s.sentiment.Aggregate(ctx, projectID, s.resolveRange(q))
	if err != nil {
		return nil, fmt.Errorf("get mentions summary: %w", err)
	}

	return ReduceSummary(stats, tallies), nil
}

// GetBrandSentiment returns the brand entity's sentiment breakdown for the
// range.
func (s *Service) GetBrandSentiment(
	ctx context.Context,
	projectID uuid.UUID,
	q StatsQuery,
) (domain.SentimentBreakdown, error) {
	tallies, err := s.sentiment.Aggregate(ctx, projectID, s.resolveRange(q))
	if err != nil {
		return domain.SentimentBreakdown{}, fmt.Errorf("get brand sentiment: %w", err)
	}

	tally, ok := tallies[domain.Brand()]
	if !ok {
		return domain.SentimentBreakdown{}, nil
	}

	breakdown := domain.SentimentBreakdown{
		Positive: tally.Positive,
		Neutral:  tally.Neutral,
		Negative: tally.Negative,
		Total:    tally.Total() + tally.Mixed,
	}
	if breakdown.Total > 0 {
		breakdown.AvgRating = tally.ScoreSum / float64(breakdown.Total)
	}

	return breakdown, nil
}

// TrendResult pairs the current and previous period rows of a trend
// comparison.
type TrendResult struct {
	Current  []domain.DailyStat
	Previous []domain.DailyStat
}

// GetStatsTrend reads the current and previous period concurrently. The two
// reads are independent requests sharing no mutable state; each one still
// sequences rollup-then-fallback internally.
func (s *Service) GetStatsTrend(
	ctx context.Context,
	projectID uuid.UUID,
	current, previous StatsQuery,
) (TrendResult, error) {
	var (
		wg      sync.WaitGroup
		result  TrendResult
		curErr  error
		prevErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Current, curErr = s.GetDailyStats(ctx, projectID, current)
	}()
	go func() {
		defer wg.Done()
		result.Previous, prevErr = s.GetDailyStats(ctx, projectID, previous)
	}()
	wg.Wait()

	if curErr != nil {
		return TrendResult{}, fmt.Errorf("get stats trend (current): %w", curErr)
	}
	if prevErr != nil {
		return TrendResult{}, fmt.Errorf("get stats trend (previous): %w", prevErr)
	}

	return result, nil
}
