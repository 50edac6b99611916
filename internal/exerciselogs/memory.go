package exerciselogs

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
	store map[string]*Log
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Log)}
}

func (m *MemoryRepository) ListByWorkout(ctx context.Context, userID, workoutID string) ([]Log, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Log
	for _, l := range m.store {
		if l.UserID == userID && l.WorkoutID == workoutID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *MemoryRepository) Create(ctx context.Context, l *Log) (*Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
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

func (m *MemoryRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok || l.UserID != userID {
		return nil, ErrNotFound
	}
	if upd.ExerciseName != nil {
		l.ExerciseName = *upd.ExerciseName
	}
	if upd.MuscleGroup != nil {
		l.MuscleGroup = *upd.MuscleGroup
	}
	if upd.Sets != nil {
		l.Sets = *upd.Sets
	}
	if upd.Reps != nil {
		l.Reps = *upd.Reps
	}
	if upd.Weight != nil {
		l.Weight = *upd.Weight
	}
	out := *l
	return &out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok || l.UserID != userID {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) WeightSeries(ctx context.Context, userID, exercise string, from, to time.Time) ([]WeightPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var points []WeightPoint
	for _, l := range m.store {
		if l.UserID != userID || l.ExerciseName != exercise {
			continue
		}
		if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
			continue
		}
		points = append(points, WeightPoint{CreatedAt: l.CreatedAt, Weight: l.Weight, ExerciseName: l.ExerciseName})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].CreatedAt.Before(points[j].CreatedAt) })
	return points, nil
}

func (m *MemoryRepository) MuscleGroups(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var groups []string
	for _, l := range m.store {
		if l.UserID != userID {
			continue
		}
		if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
			continue
		}
		groups = append(groups, l.MuscleGroup)
	}
	return groups, nil
}
