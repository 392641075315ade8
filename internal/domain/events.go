package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes the two raw event tables.
type EventKind string

const (
	// EventKindMention is a brand/competitor mention in an AI answer.
	EventKindMention EventKind = "mention"
	// EventKindCitation is a cited source attributed to an entity.
	EventKindCitation EventKind = "citation"
)

// RawEvent is one mention or citation event joined through its originating
// prompt. Platform, Region, and TopicID are nil when the prompt record no
// longer exists and the dimensions cannot be resolved.
type RawEvent struct {
	Kind         EventKind
	EntityType   EntityType
	CompetitorID *uuid.UUID
	QueryID      *uuid.UUID
	Platform     *string
	Region       *string
	TopicID      *uuid.UUID
	CreatedAt    time.Time
}

// Entity returns the event's entity identity.
func (e RawEvent) Entity() EntityRef {
	if e.EntityType == EntityTypeCompetitor && e.CompetitorID != nil {
		return CompetitorRef(*e.CompetitorID)
	}
	return Brand()
}

// DayEntityCount is one per-day per-entity bucket counted directly from the
// raw event tables. Responses is the number of distinct originating prompts
// among the entity's mention events for the day.
type DayEntityCount struct {
	Day          Date
	EntityType   EntityType
	CompetitorID *uuid.UUID
	Mentions     int
	Citations    int
	Responses    int
}

// Entity returns the bucket's entity identity.
func (c DayEntityCount) Entity() EntityRef {
	if c.EntityType == EntityTypeCompetitor && c.CompetitorID != nil {
		return CompetitorRef(*c.CompetitorID)
	}
	return Brand()
}

// SentimentLabel classifies one sentiment evaluation.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
	SentimentMixed    SentimentLabel = "mixed"
)

// SentimentEvaluation is one record from the sentiment pipeline. Rating is a
// raw score in [-1, 1]; Label is the pipeline's classification.
type SentimentEvaluation struct {
	EntityType   EntityType
	CompetitorID *uuid.UUID
	Label        SentimentLabel
	Rating       float64
	CreatedAt    time.Time
}

// Entity returns the evaluation's entity identity.
func (e SentimentEvaluation) Entity() EntityRef {
	if e.EntityType == EntityTypeCompetitor && e.CompetitorID != nil {
		return CompetitorRef(*e.CompetitorID)
	}
	return Brand()
}

// SentimentTally accumulates sentiment evaluations for one entity. It is
// keyed by entity identity only, never by day; the sentiment pipeline has
// different granularity than the mention pipeline.
type SentimentTally struct {
	Positive int
	Neutral  int
	Negative int
	Mixed    int
	ScoreSum float64
}

// Add folds one evaluation into the tally.
func (t *SentimentTally) Add(e SentimentEvaluation) {
	switch e.Label {
	case SentimentPositive:
		t.Positive++
	case SentimentNeutral:
		t.Neutral++
	case SentimentNegative:
		t.Negative++
	case SentimentMixed:
		t.Mixed++
	}
	t.ScoreSum += e.Rating
}

// Total returns the number of labeled evaluations excluding mixed.
func (t SentimentTally) Total() int {
	return t.Positive + t.Neutral + t.Negative
}

// AvgSentiment returns (positive-negative)/(positive+neutral+negative),
// or 0 when the tally is empty.
func (t SentimentTally) AvgSentiment() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Positive-t.Negative) / float64(total)
}
