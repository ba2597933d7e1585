package models

import "time"

// DiaperType is the closed set of diaper kinds that may be persisted.
type DiaperType string

const (
	DiaperPee     DiaperType = "pee"
	DiaperPoop    DiaperType = "poop"
	DiaperBoth    DiaperType = "both"
	DiaperBlowout DiaperType = "blowout"
)

// DiaperTypes lists every valid DiaperType in display order.
var DiaperTypes = []DiaperType{DiaperPee, DiaperPoop, DiaperBoth, DiaperBlowout}

// Valid reports whether t is a member of the enumeration.
func (t DiaperType) Valid() bool {
	for _, v := range DiaperTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Diaper is a persisted diaper change.
type Diaper struct {
	ID        int64      `json:"id" yaml:"id,omitempty" db:"id"`
	Type      DiaperType `json:"type" yaml:"type" db:"type"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp" db:"timestamp"`
}

// DiaperPatch carries the fields of a partial update. Nil means "leave as is".
type DiaperPatch struct {
	Type      *DiaperType
	Timestamp *time.Time
}

// Empty reports whether the patch would change nothing.
func (p DiaperPatch) Empty() bool {
	return p.Type == nil && p.Timestamp == nil
}

// DiaperCreateRequest is the POST /api/diapers payload.
// timestamp is optional; the server stamps the current time when it is absent.
type DiaperCreateRequest struct {
	Type      string  `json:"type"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// DiaperUpdateRequest is the PUT /api/diapers/:id payload.
type DiaperUpdateRequest struct {
	Type      *string `json:"type,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"`
}
