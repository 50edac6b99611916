package workouts

import (
	"time"

	"github.com/liftlog/liftlog/internal/exerciselogs"
)

// Workout is one training session on a date.
type Workout struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Detail is a workout with its exercise logs embedded, as returned by the
// detail endpoint.
type Detail struct {
	Workout
	Logs []exerciselogs.Log `json:"exercise_logs"`
}

// Update carries the replaceable fields of a PUT.
type Update struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes,omitempty"`
}
