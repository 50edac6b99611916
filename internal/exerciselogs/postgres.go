package exerciselogs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository against a direct database
// connection, for deployments configured with DATABASE_URL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const logColumns = "id, workout_id, user_id, exercise_name, coalesce(muscle_group, ''), sets, reps, weight, created_at"

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.WorkoutID, &l.UserID, &l.ExerciseName, &l.MuscleGroup, &l.Sets, &l.Reps, &l.Weight, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) ListByWorkout(ctx context.Context, userID, workoutID string) ([]Log, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+logColumns+" FROM exercise_logs WHERE user_id = $1 AND workout_id = $2 ORDER BY created_at",
		userID, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.WorkoutID, &l.UserID, &l.ExerciseName, &l.MuscleGroup, &l.Sets, &l.Reps, &l.Weight, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, l *Log) (*Log, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO exercise_logs (workout_id, user_id, exercise_name, muscle_group, sets, reps, weight)
		 VALUES ($1, $2, $3, nullif($4, ''), $5, $6, $7)
		 RETURNING `+logColumns,
		l.WorkoutID, l.UserID, l.ExerciseName, l.MuscleGroup, l.Sets, l.Reps, l.Weight)
	return scanLog(row)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, upd *Update) (*Log, error) {
	set := ""
	args := []interface{}{id, userID}
	add := func(col string, val interface{}) {
		args = append(args, val)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}
	if upd.ExerciseName != nil {
		add("exercise_name", *upd.ExerciseName)
	}
	if upd.MuscleGroup != nil {
		add("muscle_group", *upd.MuscleGroup)
	}
	if upd.Sets != nil {
		add("sets", *upd.Sets)
	}
	if upd.Reps != nil {
		add("reps", *upd.Reps)
	}
	if upd.Weight != nil {
		add("weight", *upd.Weight)
	}
	if set == "" {
		// nothing to change; return the current row
		return scanLog(r.pool.QueryRow(ctx,
			"SELECT "+logColumns+" FROM exercise_logs WHERE id = $1 AND user_id = $2", id, userID))
	}
	row := r.pool.QueryRow(ctx,
		"UPDATE exercise_logs SET "+set+" WHERE id = $1 AND user_id = $2 RETURNING "+logColumns,
		args...)
	return scanLog(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM exercise_logs WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) WeightSeries(ctx context.Context, userID, exercise string, from, to time.Time) ([]WeightPoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT created_at, weight, exercise_name FROM exercise_logs
		 WHERE user_id = $1 AND exercise_name = $2 AND created_at >= $3 AND created_at <= $4
		 ORDER BY created_at LIMIT 1000`,
		userID, exercise, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []WeightPoint
	for rows.Next() {
		var p WeightPoint
		if err := rows.Scan(&p.CreatedAt, &p.Weight, &p.ExerciseName); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *PostgresRepository) MuscleGroups(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT coalesce(muscle_group, '') FROM exercise_logs
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3 LIMIT 1000`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
