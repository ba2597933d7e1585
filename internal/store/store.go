package store

import (
	"context"

	"github.com/babytracker/babytracker/internal/models"
)

type storageError string

func (e storageError) Error() string {
	return string(e)
}

const (
	// ErrNotFound is returned when the referenced id does not exist.
	ErrNotFound = storageError("not found")
	// ErrEmptyPatch is returned by Update when no field was supplied.
	ErrEmptyPatch = storageError("no fields to update")
	// ErrInvalidType is returned when a diaper type is outside the enumeration.
	ErrInvalidType = storageError("invalid diaper type")
	// ErrMissingTime is returned when a required time field is zero.
	ErrMissingTime = storageError("time field required")
)

// Store is implemented by every persistence backend.
type Store interface {
	Diapers() DiaperStore
	Feedings() FeedingStore
	Ping(ctx context.Context) error
	Close()
}

// DiaperStore manages diaper rows. List returns newest first.
type DiaperStore interface {
	Create(ctx context.Context, d *models.Diaper) error
	Get(ctx context.Context, id int64) (*models.Diaper, error)
	List(ctx context.Context, f models.ListFilter) ([]models.Diaper, error)
	Update(ctx context.Context, id int64, p models.DiaperPatch) (*models.Diaper, error)
	Delete(ctx context.Context, id int64) error
}

// FeedingStore manages feeding rows. List returns newest start_time first.
type FeedingStore interface {
	Create(ctx context.Context, f *models.Feeding) error
	Get(ctx context.Context, id int64) (*models.Feeding, error)
	List(ctx context.Context, f models.ListFilter) ([]models.Feeding, error)
	Update(ctx context.Context, id int64, p models.FeedingPatch) (*models.Feeding, error)
	Delete(ctx context.Context, id int64) error
}

func checkDiaper(d *models.Diaper) error {
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if d.Timestamp.IsZero() {
		return ErrMissingTime
	}
	return nil
}

func checkDiaperPatch(p models.DiaperPatch) error {
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.Empty() {
		return ErrEmptyPatch
	}
	return nil
}

func checkFeeding(f *models.Feeding) error {
	if f.StartTime.IsZero() || f.EndTime.IsZero() {
		return ErrMissingTime
	}
	return nil
}

func checkFeedingPatch(p models.FeedingPatch) error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	return nil
}
