package exerciselogs

import (
	"context"
	"errors"
	"time"

	"github.com/liftlog/liftlog/internal/supabase"
)

var ErrNotFound = errors.New("exercise log not found")

// Repository provides exercise log persistence operations. All operations are
// scoped to the owning user.
type Repository interface {
	ListByWorkout(ctx context.Context, userID, workoutID string) ([]Log, error)
	Create(ctx context.Context, l *Log) (*Log, error)
	Update(ctx context.Context, userID, id string, upd *Update) (*Log, error)
	Delete(ctx context.Context, userID, id string) error

	// Progress queries used by the analytics service.
	WeightSeries(ctx context.Context, userID, exercise string, from, to time.Time) ([]WeightPoint, error)
	MuscleGroups(ctx context.Context, userID string, from, to time.Time) ([]string, error)
}

const table = "exercise_logs"

// SupabaseRepository implements Repository over the PostgREST backend.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) ListByWorkout(ctx context.Context, userID, workoutID string) ([]Log, error) {
	var logs []Log
	err := r.client.From(table).
		Select("*").
		Eq("user_id", userID).
		Eq("workout_id", workoutID).
		Order("created_at", true).
		Get(ctx, &logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *SupabaseRepository) Create(ctx context.Context, l *Log) (*Log, error) {
	var rows []Log
	if err := r.client.From(table).Insert(ctx, l, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return l, nil
	}
	return &rows[0], nil
}

func (r *SupabaseRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Log, error) {
	var rows []Log
	err := r.client.From(table).
		Eq("id", id).
		Eq("user_id", userID).
		Update(ctx, upd, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *SupabaseRepository) Delete(ctx context.Context, userID, id string) error {
	var rows []Log
	err := r.client.From(table).
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx, &rows)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseRepository) WeightSeries(ctx context.Context, userID, exercise string, from, to time.Time) ([]WeightPoint, error) {
	var points []WeightPoint
	err := r.client.From(table).
		Select("created_at, weight, exercise_name").
		Eq("user_id", userID).
		Eq("exercise_name", exercise).
		Gte("created_at", from.UTC().Format(time.RFC3339)).
		Lte("created_at", to.UTC().Format(time.RFC3339)).
		Order("created_at", true).
		Limit(1000).
		Get(ctx, &points)
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *SupabaseRepository) MuscleGroups(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	var rows []struct {
		MuscleGroup string `json:"muscle_group"`
	}
	err := r.client.From(table).
		Select("muscle_group").
		Eq("user_id", userID).
		Gte("created_at", from.UTC().Format(time.RFC3339)).
		Lte("created_at", to.UTC().Format(time.RFC3339)).
		Limit(1000).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	groups := make([]string, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.MuscleGroup)
	}
	return groups, nil
}
