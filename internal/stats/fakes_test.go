package stats_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/database"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// fakeRollup is an in-memory RollupReader recording the last requested range.
// Recording is mutex-guarded; trend reads hit it from two goroutines.
type fakeRollup struct {
	stats        []domain.DailyStat
	err          error
	watermark    time.Time
	watermarkErr error

	mu        sync.Mutex
	gotRange  domain.DateRange
	gotFilter domain.DimensionFilter
}

func (f *fakeRollup) GetDailyStats(
	_ context.Context,
	_ uuid.UUID,
	dateRange domain.DateRange,
	filter domain.DimensionFilter,
) ([]domain.DailyStat, error) {
	f.mu.Lock()
	f.gotRange = dateRange
	f.gotFilter = filter
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeRollup) GetWatermark(_ context.Context, _ uuid.UUID) (time.Time, error) {
	if f.watermarkErr != nil {
		return time.Time{}, f.watermarkErr
	}
	if f.watermark.IsZero() {
		return time.Time{}, database.ErrNoWatermark
	}
	return f.watermark, nil
}

// fakeEvents is an in-memory EventReader recording the window it was asked
// for. Recording is mutex-guarded for the same reason as fakeRollup.
type fakeEvents struct {
	counts    []domain.DayEntityCount
	countsErr error
	events    []domain.RawEvent
	listErr   error

	mu       sync.Mutex
	gotFrom  time.Time
	gotUntil time.Time
}

func (f *fakeEvents) CountDailyEvents(
	_ context.Context,
	_ uuid.UUID,
	_ domain.DateRange,
) ([]domain.DayEntityCount, error) {
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	return f.counts, nil
}

func (f *fakeEvents) ListEventsBetween(
	_ context.Context,
	_ uuid.UUID,
	from, until time.Time,
) ([]domain.RawEvent, error) {
	f.mu.Lock()
	f.gotFrom = from
	f.gotUntil = until
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var inWindow []domain.RawEvent
	for _, e := range f.events {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(until) {
			inWindow = append(inWindow, e)
		}
	}
	return inWindow, nil
}

// fakeSentiment is an in-memory SentimentReader.
type fakeSentiment struct {
	evaluations []domain.SentimentEvaluation
	err         error
}

func (f *fakeSentiment) ListEvaluations(
	_ context.Context,
	_ uuid.UUID,
	_, _ time.Time,
) ([]domain.SentimentEvaluation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.evaluations, nil
}

// fakeCompetitors is an in-memory CompetitorReader.
type fakeCompetitors struct {
	competitors []domain.Competitor
	err         error
}

func (f *fakeCompetitors) ListActive(_ context.Context, _ uuid.UUID) ([]domain.Competitor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.competitors, nil
}

// fakeProjects is an in-memory ProjectReader.
type fakeProjects struct {
	project *domain.Project
	err     error
}

func (f *fakeProjects) Get(_ context.Context, _ uuid.UUID) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.project, nil
}
