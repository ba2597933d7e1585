package store

import (
	"context"
	"sort"
	"sync"

	"github.com/babytracker/babytracker/internal/models"
)

// MemoryStore keeps rows in process memory. It backs tests and STORE=memory
// development runs; nothing survives a restart.
type MemoryStore struct {
	diapers  *memDiaperStore
	feedings *memFeedingStore
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diapers:  &memDiaperStore{rows: make(map[int64]models.Diaper), nextID: 1},
		feedings: &memFeedingStore{rows: make(map[int64]models.Feeding), nextID: 1},
	}
}

func (m *MemoryStore) Diapers() DiaperStore { return m.diapers }
func (m *MemoryStore) Feedings() FeedingStore { return m.feedings }

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) Close() {}

type memDiaperStore struct {
	rows   map[int64]models.Diaper
	nextID int64
	sync.RWMutex
}

func (s *memDiaperStore) Create(_ context.Context, d *models.Diaper) error {
	if err := checkDiaper(d); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	d.ID = s.nextID
	s.nextID++
	d.Timestamp = d.Timestamp.UTC()
	s.rows[d.ID] = *d
	return nil
}

func (s *memDiaperStore) Get(_ context.Context, id int64) (*models.Diaper, error) {
	s.RLock()
	defer s.RUnlock()

	if d, ok := s.rows[id]; ok {
		return &d, nil
	}
	return nil, ErrNotFound
}

func (s *memDiaperStore) List(_ context.Context, f models.ListFilter) ([]models.Diaper, error) {
	s.RLock()
	out := make([]models.Diaper, 0, len(s.rows))
	for _, d := range s.rows {
		if f.Contains(d.Timestamp) {
			out = append(out, d)
		}
	}
	s.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memDiaperStore) Update(_ context.Context, id int64, p models.DiaperPatch) (*models.Diaper, error) {
	if err := checkDiaperPatch(p); err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	d, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Timestamp != nil {
		d.Timestamp = p.Timestamp.UTC()
	}
	s.rows[id] = d
	return &d, nil
}

func (s *memDiaperStore) Delete(_ context.Context, id int64) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

type memFeedingStore struct {
	rows   map[int64]models.Feeding
	nextID int64
	sync.RWMutex
}

func (s *memFeedingStore) Create(_ context.Context, f *models.Feeding) error {
	if err := checkFeeding(f); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	f.ID = s.nextID
	s.nextID++
	f.StartTime = f.StartTime.UTC()
	f.EndTime = f.EndTime.UTC()
	s.rows[f.ID] = *f
	return nil
}

func (s *memFeedingStore) Get(_ context.Context, id int64) (*models.Feeding, error) {
	s.RLock()
	defer s.RUnlock()

	if f, ok := s.rows[id]; ok {
		return &f, nil
	}
	return nil, ErrNotFound
}

func (s *memFeedingStore) List(_ context.Context, f models.ListFilter) ([]models.Feeding, error) {
	s.RLock()
	out := make([]models.Feeding, 0, len(s.rows))
	for _, r := range s.rows {
		if f.Contains(r.StartTime) {
			out = append(out, r)
		}
	}
	s.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memFeedingStore) Update(_ context.Context, id int64, p models.FeedingPatch) (*models.Feeding, error) {
	if err := checkFeedingPatch(p); err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	f, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.StartTime != nil {
		f.StartTime = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		f.EndTime = p.EndTime.UTC()
	}
	s.rows[id] = f
	return &f, nil
}

func (s *memFeedingStore) Delete(_ context.Context, id int64) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
