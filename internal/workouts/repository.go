package workouts

import (
	"context"
	"errors"

	"github.com/liftlog/liftlog/internal/supabase"
)

var ErrNotFound = errors.New("workout not found")

// Repository provides workout persistence operations, always scoped to the
// owning user. from/to are optional YYYY-MM-DD bounds on the workout date.
type Repository interface {
	List(ctx context.Context, userID, from, to string) ([]Workout, error)
	Get(ctx context.Context, userID, id string) (*Detail, error)
	Create(ctx context.Context, w *Workout) (*Workout, error)
	Update(ctx context.Context, userID, id string, upd *Update) (*Workout, error)
	Delete(ctx context.Context, userID, id string) (*Workout, error)
}

const table = "workouts"

// SupabaseRepository implements Repository over the PostgREST backend.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(client *supabase.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) List(ctx context.Context, userID, from, to string) ([]Workout, error) {
	q := r.client.From(table).Select("*").Eq("user_id", userID)
	if from != "" {
		q = q.Gte("date", from)
	}
	if to != "" {
		q = q.Lte("date", to)
	}
	var out []Workout
	if err := q.Order("date", true).Get(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SupabaseRepository) Get(ctx context.Context, userID, id string) (*Detail, error) {
	var d Detail
	err := r.client.From(table).
		Select("*, exercise_logs(*)").
		Eq("id", id).
		Eq("user_id", userID).
		Single().
		Get(ctx, &d)
	if err != nil {
		if errors.Is(err, supabase.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *SupabaseRepository) Create(ctx context.Context, w *Workout) (*Workout, error) {
	var rows []Workout
	if err := r.client.From(table).Insert(ctx, w, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return w, nil
	}
	return &rows[0], nil
}

func (r *SupabaseRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Workout, error) {
	var rows []Workout
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

func (r *SupabaseRepository) Delete(ctx context.Context, userID, id string) (*Workout, error) {
	var rows []Workout
	err := r.client.From(table).
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
