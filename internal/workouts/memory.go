package workouts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Workout
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Workout)}
}

func (m *MemoryRepository) List(ctx context.Context, userID, from, to string) ([]Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Workout
	for _, w := range m.store {
		if w.UserID != userID {
			continue
		}
		if from != "" && w.Date < from {
			continue
		}
		if to != "" && w.Date > to {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, userID, id string) (*Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.store[id]
	if !ok || w.UserID != userID {
		return nil, ErrNotFound
	}
	return &Detail{Workout: *w}, nil
}

func (m *MemoryRepository) Create(ctx context.Context, w *Workout) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.store[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.store[id]
	if !ok || w.UserID != userID {
		return nil, ErrNotFound
	}
	w.Title = upd.Title
	w.Date = upd.Date
	w.Notes = upd.Notes
	out := *w
	return &out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, userID, id string) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.store[id]
	if !ok || w.UserID != userID {
		return nil, ErrNotFound
	}
	delete(m.store, id)
	out := *w
	return &out, nil
}
