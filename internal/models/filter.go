package models

import "time"

// ListFilter narrows a list query on the entity's primary time field.
// Both bounds are inclusive and optional. Limit <= 0 means no limit.
type ListFilter struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// Contains reports whether t falls inside the filter's bounds.
func (f ListFilter) Contains(t time.Time) bool {
	if f.Start != nil && t.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.After(*f.End) {
		return false
	}
	return true
}

// Event kind labels used in logs and metrics.
const (
	KindDiaper  = "diaper"
	KindFeeding = "feeding"
)
