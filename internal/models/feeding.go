package models

import "time"

// Feeding is a persisted feeding session.
// EndTime may precede StartTime; hand-entered logs contain such rows and they are kept as-is.
type Feeding struct {
	ID        int64     `json:"id" yaml:"id,omitempty" db:"id"`
	StartTime time.Time `json:"start_time" yaml:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" yaml:"end_time" db:"end_time"`
}

// Inverted reports whether the session ends before it starts.
func (f Feeding) Inverted() bool {
	return f.EndTime.Before(f.StartTime)
}

// FeedingPatch carries the fields of a partial update. Nil means "leave as is".
type FeedingPatch struct {
	StartTime *time.Time
	EndTime   *time.Time
}

// Empty reports whether the patch would change nothing.
func (p FeedingPatch) Empty() bool {
	return p.StartTime == nil && p.EndTime == nil
}

// FeedingCreateRequest is the POST /api/feedings payload. Both fields are required.
type FeedingCreateRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// FeedingUpdateRequest is the PUT /api/feedings/:id payload.
type FeedingUpdateRequest struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}
