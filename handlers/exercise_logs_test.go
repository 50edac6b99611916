package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/exerciselogs"
)

func (e *testEnv) seedLog(t *testing.T, workoutID, exercise, group string, weight float64) *exerciselogs.Log {
	t.Helper()
	created, err := e.logs.Create(context.Background(), &exerciselogs.Log{
		WorkoutID:    workoutID,
		UserID:       testUserID,
		ExerciseName: exercise,
		MuscleGroup:  group,
		Sets:         3, Reps: 8, Weight: weight,
	})
	require.NoError(t, err)
	return created
}

func TestLogListByWorkout(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")
	env.seedLog(t, workout.ID, "Bench Press", "Chest", 80)
	env.seedLog(t, workout.ID, "Overhead Press", "Shoulders", 50)

	w := env.request(t, http.MethodGet, "/api/v1/exercise_logs/workouts/"+workout.ID+"/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var logs []exerciselogs.Log
	decodeBody(t, w, &logs)
	assert.Len(t, logs, 2)
}

func TestLogListEmptyIsNotNull(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")

	w := env.request(t, http.MethodGet, "/api/v1/exercise_logs/workouts/"+workout.ID+"/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLogCreate(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")

	w := env.request(t, http.MethodPost, "/api/v1/exercise_logs/workouts/"+workout.ID+"/logs", gin.H{
		"exercise_name": "Squat",
		"muscle_group":  "Legs",
		"sets":          5,
		"reps":          5,
		"weight":        120.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created exerciselogs.Log
	decodeBody(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, workout.ID, created.WorkoutID)
	assert.Equal(t, testUserID, created.UserID)
	assert.Equal(t, 120.5, created.Weight)
}

func TestLogCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")
	path := "/api/v1/exercise_logs/workouts/" + workout.ID + "/logs"

	cases := []struct {
		name    string
		payload gin.H
		message string
	}{
		{"missing sets", gin.H{"exercise_name": "Squat", "reps": 5, "weight": 100}, "Set number must be positive"},
		{"zero sets", gin.H{"exercise_name": "Squat", "sets": 0, "reps": 5, "weight": 100}, "Set number must be positive"},
		{"missing reps", gin.H{"exercise_name": "Squat", "sets": 5, "weight": 100}, "Rep number must be positive"},
		{"negative reps", gin.H{"exercise_name": "Squat", "sets": 5, "reps": -1, "weight": 100}, "Rep number must be positive"},
		{"missing weight", gin.H{"exercise_name": "Squat", "sets": 5, "reps": 5}, "Weight has to be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.request(t, http.MethodPost, path, tc.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			decodeBody(t, w, &body)
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestLogCreateInvalidWorkoutID(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodPost, "/api/v1/exercise_logs/workouts/nope/logs", gin.H{
		"exercise_name": "Squat", "sets": 5, "reps": 5, "weight": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Invalid workout ID", body["message"])
}

func TestLogPartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")
	log := env.seedLog(t, workout.ID, "Bench Press", "Chest", 80)

	w := env.request(t, http.MethodPatch, "/api/v1/exercise_logs/logs/"+log.ID, gin.H{"weight": 85})
	require.Equal(t, http.StatusOK, w.Code)

	var updated exerciselogs.Log
	decodeBody(t, w, &updated)
	assert.Equal(t, 85.0, updated.Weight)
	// untouched fields survive a partial update
	assert.Equal(t, "Bench Press", updated.ExerciseName)
	assert.Equal(t, 3, updated.Sets)
}

func TestLogUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")
	log := env.seedLog(t, workout.ID, "Bench Press", "Chest", 80)

	w := env.request(t, http.MethodPatch, "/api/v1/exercise_logs/logs/"+log.ID, gin.H{"sets": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Set number must be positive", body["message"])
}

func TestLogUpdateInvalidID(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodPatch, "/api/v1/exercise_logs/logs/nope", gin.H{"weight": 85})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Invalid Log ID", body["message"])
}

func TestLogUpdateNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, http.MethodPatch, "/api/v1/exercise_logs/logs/6f0f7b9a-64b7-4fd1-8bcb-f0f1b2c3d4e5", gin.H{"weight": 85})
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "No log found!", body["message"])
}

func TestLogDelete(t *testing.T) {
	env := newTestEnv(t)
	workout := env.seedWorkout(t, "Push day", "2026-08-02")
	log := env.seedLog(t, workout.ID, "Bench Press", "Chest", 80)

	w := env.request(t, http.MethodDelete, "/api/v1/exercise_logs/logs/"+log.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "Log deleted", body["message"])

	w = env.request(t, http.MethodDelete, "/api/v1/exercise_logs/logs/"+log.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
