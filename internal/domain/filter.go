package domain

import (
	"github.com/google/uuid"
)

// Filter is a discriminated optional equality filter on a string dimension.
// The zero value matches everything; a set filter matches only its value.
// Using an explicit option instead of sentinel strings ("all", "GLOBAL")
// makes the filtered-or-not distinction visible in the type.
type Filter struct {
	value string
	set   bool
}

// FilterAny matches every value, including unresolved ones.
func FilterAny() Filter {
	return Filter{}
}

// FilterEq matches only the given value.
func FilterEq(v string) Filter {
	return Filter{value: v, set: true}
}

// IsSet reports whether the filter restricts to a single value.
func (f Filter) IsSet() bool {
	return f.set
}

// Value returns the filter value and whether it is set.
func (f Filter) Value() (string, bool) {
	return f.value, f.set
}

// Matches reports whether a resolved dimension value passes the filter.
// A nil value (unresolvable dimension) only passes an unset filter.
func (f Filter) Matches(v *string) bool {
	if !f.set {
		return true
	}
	return v != nil && *v == f.value
}

// TopicFilter is the optional equality filter on topic identity.
type TopicFilter struct {
	id  uuid.UUID
	set bool
}

// TopicAny matches every topic.
func TopicAny() TopicFilter {
	return TopicFilter{}
}

// TopicEq matches only the given topic.
func TopicEq(id uuid.UUID) TopicFilter {
	return TopicFilter{id: id, set: true}
}

// IsSet reports whether the filter restricts to a single topic.
func (f TopicFilter) IsSet() bool {
	return f.set
}

// Value returns the topic id and whether it is set.
func (f TopicFilter) Value() (uuid.UUID, bool) {
	return f.id, f.set
}

// Matches reports whether a resolved topic passes the filter.
func (f TopicFilter) Matches(id *uuid.UUID) bool {
	if !f.set {
		return true
	}
	return id != nil && *id == f.id
}

// DimensionFilter combines the three orthogonal slicing axes. The zero value
// is the non-dimensional path: nothing is filtered.
type DimensionFilter struct {
	Platform Filter
	Region   Filter
	Topic    TopicFilter
}

// IsZero reports whether no dimension is filtered.
func (d DimensionFilter) IsZero() bool {
	return !d.Platform.IsSet() && !d.Region.IsSet() && !d.Topic.IsSet()
}
