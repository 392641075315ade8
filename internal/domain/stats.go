package domain

import (
	"github.com/google/uuid"
)

// DailyStat is one counter row: how many mentions and citations an entity
// received on one calendar day, optionally tagged with the dimensions it was
// computed under. Rows are read from the nightly rollup or reconstructed
// in memory; this engine never writes them back.
type DailyStat struct {
	StatDate          Date
	EntityType        EntityType
	CompetitorID      *uuid.UUID
	EntityName        string
	MentionsCount     int
	CitationsCount    int
	ResponsesAnalyzed int

	// Dimensional tags, set only on rows computed dimension-aware.
	Platform *string
	Region   *string
	TopicID  *uuid.UUID
}

// Entity returns the row's entity identity.
func (s DailyStat) Entity() EntityRef {
	if s.EntityType == EntityTypeCompetitor && s.CompetitorID != nil {
		return CompetitorRef(*s.CompetitorID)
	}
	return Brand()
}

// StatKey is the composite merge key of the coarse daily-totals path:
// entity identity plus calendar day. Dimensional tags are intentionally not
// part of this key; the dimension-aware path filters both sides identically
// before any merge.
type StatKey struct {
	Entity EntityRef
	Date   Date
}

// Key returns the row's merge key.
func (s DailyStat) Key() StatKey {
	return StatKey{Entity: s.Entity(), Date: s.StatDate}
}

// EntitySummary is the reduction of many DailyStat rows over a range into a
// single per-entity row, with the sentiment breakdown merged in by entity
// identity.
type EntitySummary struct {
	EntityType     EntityType
	CompetitorID   *uuid.UUID
	EntityName     string
	TotalMentions  int
	TotalCitations int
	Positive       int
	Neutral        int
	Negative       int

	// AvgSentiment is (positive-negative)/(positive+neutral+negative),
	// in [-1, 1]. Zero when the entity has no sentiment evaluations.
	AvgSentiment float64
}

// Entity returns the summary's entity identity.
func (s EntitySummary) Entity() EntityRef {
	if s.EntityType == EntityTypeCompetitor && s.CompetitorID != nil {
		return CompetitorRef(*s.CompetitorID)
	}
	return Brand()
}

// SentimentBreakdown is the brand-level sentiment result of
// GetBrandSentiment.
type SentimentBreakdown struct {
	Positive  int
	Neutral   int
	Negative  int
	Total     int
	AvgRating float64
}
