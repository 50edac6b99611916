package exerciselogs

import "time"

// Log is one exercise entry inside a workout.
type Log struct {
	ID           string    `json:"id,omitempty"`
	WorkoutID    string    `json:"workout_id"`
	UserID       string    `json:"user_id"`
	ExerciseName string    `json:"exercise_name"`
	MuscleGroup  string    `json:"muscle_group,omitempty"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	Weight       float64   `json:"weight"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Update carries the mutable fields of a PATCH; nil means "leave unchanged".
type Update struct {
	ExerciseName *string  `json:"exercise_name,omitempty"`
	MuscleGroup  *string  `json:"muscle_group,omitempty"`
	Sets         *int     `json:"sets,omitempty"`
	Reps         *int     `json:"reps,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
}

// WeightPoint is one sample in a per-exercise weight progression series.
type WeightPoint struct {
	CreatedAt    time.Time `json:"created_at"`
	Weight       float64   `json:"weight"`
	ExerciseName string    `json:"exercise_name"`
}
