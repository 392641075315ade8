// Package domain defines the core types of the brand-visibility metrics engine:
// daily counter rows, entity identities, dimension filters, and the raw event
// shapes read from the ingestion pipeline's tables.
package domain

import (
	"github.com/google/uuid"
)

// EntityType distinguishes the tracked brand from its competitors.
type EntityType string

const (
	// EntityTypeBrand is the project's own brand.
	EntityTypeBrand EntityType = "brand"
	// EntityTypeCompetitor is a tracked competitor.
	EntityTypeCompetitor EntityType = "competitor"
)

// EntityRef identifies the brand or exactly one competitor.
// CompetitorID is the zero UUID for the brand. EntityRef is comparable and
// used as a map key throughout the aggregation paths.
type EntityRef struct {
	Type         EntityType
	CompetitorID uuid.UUID
}

// Brand returns the EntityRef for the project's own brand.
func Brand() EntityRef {
	return EntityRef{Type: EntityTypeBrand}
}

// CompetitorRef returns the EntityRef for a competitor.
func CompetitorRef(id uuid.UUID) EntityRef {
	return EntityRef{Type: EntityTypeCompetitor, CompetitorID: id}
}

// IsBrand reports whether the reference is the brand.
func (e EntityRef) IsBrand() bool {
	return e.Type == EntityTypeBrand
}

// Project is the tracked brand's project record. Only the fields this
// engine reads are modeled.
type Project struct {
	ID        uuid.UUID `db:"id"`
	BrandName string    `db:"brand_name"`
}

// Competitor is one tracked competitor of a project.
type Competitor struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Domain   string    `db:"domain"`
	IsActive bool      `db:"is_active"`
}
