package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftlog/liftlog/internal/exerciselogs"
	"github.com/liftlog/liftlog/pkg/middleware"
)

// ExerciseLogHandler serves the exercise log surface.
type ExerciseLogHandler struct {
	svc *exerciselogs.Service
}

func NewExerciseLogHandler(svc *exerciselogs.Service) *ExerciseLogHandler {
	return &ExerciseLogHandler{svc: svc}
}

// Register routes under /exercise_logs
func (h *ExerciseLogHandler) Register(rg *gin.RouterGroup) {
	e := rg.Group("/exercise_logs")
	e.GET("/workouts/:workoutId/logs", h.ListByWorkout)
	e.POST("/workouts/:workoutId/logs", h.Create)
	e.PATCH("/logs/:id", h.Update)
	e.DELETE("/logs/:id", h.Delete)
}

type createLogRequest struct {
	ExerciseName string   `json:"exercise_name"`
	MuscleGroup  string   `json:"muscle_group"`
	Sets         *int     `json:"sets"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
}

func (h *ExerciseLogHandler) ListByWorkout(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	workoutID := c.Param("workoutId")
	if !validUUID(workoutID) {
		validationError(c, "Invalid workout ID")
		return
	}

	logs, err := h.svc.ListByWorkout(c.Request.Context(), ident.ID, workoutID)
	if err != nil {
		upstreamError(c, err, "No log found!", "Could not retrieve exercise logs")
		return
	}
	if logs == nil {
		logs = []exerciselogs.Log{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *ExerciseLogHandler) Create(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	workoutID := c.Param("workoutId")
	if !validUUID(workoutID) {
		validationError(c, "Invalid workout ID")
		return
	}
	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "Invalid request body", err.Error())
		return
	}
	if req.Sets == nil || *req.Sets < 1 {
		validationError(c, "Set number must be positive")
		return
	}
	if req.Reps == nil || *req.Reps < 1 {
		validationError(c, "Rep number must be positive")
		return
	}
	if req.Weight == nil {
		validationError(c, "Weight has to be a number")
		return
	}

	created, err := h.svc.Create(c.Request.Context(), ident.ID, workoutID, &exerciselogs.Log{
		ExerciseName: req.ExerciseName,
		MuscleGroup:  req.MuscleGroup,
		Sets:         *req.Sets,
		Reps:         *req.Reps,
		Weight:       *req.Weight,
	})
	if err != nil {
		upstreamError(c, err, "No log found!", "Failed to create exercise log")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ExerciseLogHandler) Update(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")
	if !validUUID(id) {
		validationError(c, "Invalid Log ID")
		return
	}
	var upd exerciselogs.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		validationError(c, "Invalid request body", err.Error())
		return
	}
	if upd.Sets != nil && *upd.Sets < 1 {
		validationError(c, "Set number must be positive")
		return
	}
	if upd.Reps != nil && *upd.Reps < 1 {
		validationError(c, "Rep number must be positive")
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), ident.ID, id, &upd)
	if err != nil {
		upstreamError(c, err, "No log found!", "Exercise log update failed")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ExerciseLogHandler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")
	if !validUUID(id) {
		validationError(c, "Invalid Log ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ident.ID, id); err != nil {
		upstreamError(c, err, "No log found!", "Failed to delete exercise log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted"})
}
