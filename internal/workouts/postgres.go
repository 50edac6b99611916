package workouts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftlog/liftlog/internal/exerciselogs"
)

// PostgresRepository implements Repository against a direct database
// connection, for deployments configured with DATABASE_URL.
type PostgresRepository struct {
	pool *pgxpool.Pool
	logs *exerciselogs.PostgresRepository
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, logs: exerciselogs.NewPostgresRepository(pool)}
}

const workoutColumns = "id, user_id, title, date, coalesce(notes, ''), created_at"

func scanWorkout(row pgx.Row) (*Workout, error) {
	var w Workout
	var date time.Time
	err := row.Scan(&w.ID, &w.UserID, &w.Title, &date, &w.Notes, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	w.Date = date.Format("2006-01-02")
	return &w, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID, from, to string) ([]Workout, error) {
	query := "SELECT " + workoutColumns + " FROM workouts WHERE user_id = $1"
	args := []interface{}{userID}
	if from != "" {
		args = append(args, from)
		query += " AND date >= $2"
	}
	if to != "" {
		args = append(args, to)
		if from != "" {
			query += " AND date <= $3"
		} else {
			query += " AND date <= $2"
		}
	}
	query += " ORDER BY date"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Workout
	for rows.Next() {
		var w Workout
		var date time.Time
		if err := rows.Scan(&w.ID, &w.UserID, &w.Title, &date, &w.Notes, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Date = date.Format("2006-01-02")
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*Detail, error) {
	w, err := scanWorkout(r.pool.QueryRow(ctx,
		"SELECT "+workoutColumns+" FROM workouts WHERE id = $1 AND user_id = $2", id, userID))
	if err != nil {
		return nil, err
	}
	logs, err := r.logs.ListByWorkout(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Workout: *w, Logs: logs}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, w *Workout) (*Workout, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO workouts (user_id, title, date, notes)
		 VALUES ($1, $2, $3, nullif($4, ''))
		 RETURNING `+workoutColumns,
		w.UserID, w.Title, w.Date, w.Notes)
	return scanWorkout(row)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Workout, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE workouts SET title = $3, date = $4, notes = nullif($5, '')
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+workoutColumns,
		id, userID, upd.Title, upd.Date, upd.Notes)
	return scanWorkout(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (*Workout, error) {
	row := r.pool.QueryRow(ctx,
		"DELETE FROM workouts WHERE id = $1 AND user_id = $2 RETURNING "+workoutColumns,
		id, userID)
	return scanWorkout(row)
}
