package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftlog/liftlog/internal/exerciselogs"
	"github.com/liftlog/liftlog/internal/workouts"
	"github.com/liftlog/liftlog/pkg/middleware"
)

// WorkoutHandler serves the workout CRUD surface.
type WorkoutHandler struct {
	svc *workouts.Service
}

func NewWorkoutHandler(svc *workouts.Service) *WorkoutHandler {
	return &WorkoutHandler{svc: svc}
}

// Register routes under /workouts
func (h *WorkoutHandler) Register(rg *gin.RouterGroup) {
	w := rg.Group("/workouts")
	w.GET("", h.List)
	w.GET("/:id", h.Get)
	w.POST("", h.Create)
	w.PUT("/:id", h.Update)
	w.DELETE("/:id", h.Delete)
}

type workoutRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (r *workoutRequest) validate(c *gin.Context) bool {
	if r.Title == "" {
		validationError(c, "Title is a required field!")
		return false
	}
	if r.Date == "" || !validDate(r.Date) {
		validationError(c, "Date must be valid")
		return false
	}
	return true
}

func (h *WorkoutHandler) List(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c)
	from := c.Query("startDate")
	to := c.Query("endDate")
	if from != "" && !validDate(from) {
		validationError(c, "Date must be valid", "startDate")
		return
	}
	if to != "" && !validDate(to) {
		validationError(c, "Date must be valid", "endDate")
		return
	}

	list, err := h.svc.List(c.Request.Context(), id.ID, from, to)
	if err != nil {
		upstreamError(c, err, "No workout found", "Could not retrieve all workouts")
		return
	}
	if list == nil {
		list = []workouts.Workout{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")
	if !validUUID(id) {
		validationError(c, "Invalid workout ID")
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), ident.ID, id)
	if err != nil {
		upstreamError(c, err, "Workout not found", "Workout not found")
		return
	}
	if detail.Logs == nil {
		detail.Logs = []exerciselogs.Log{}
	}
	c.JSON(http.StatusOK, detail)
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "Invalid request body", err.Error())
		return
	}
	if !req.validate(c) {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), ident.ID, &workouts.Workout{
		Title: req.Title,
		Date:  req.Date,
		Notes: req.Notes,
	})
	if err != nil {
		upstreamError(c, err, "No workout found", "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")
	if !validUUID(id) {
		validationError(c, "Invalid workout ID")
		return
	}
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "Invalid request body", err.Error())
		return
	}
	if !req.validate(c) {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), ident.ID, id, &workouts.Update{
		Title: req.Title,
		Date:  req.Date,
		Notes: req.Notes,
	})
	if err != nil {
		upstreamError(c, err, "No workout found", "Workout update failed")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")
	if !validUUID(id) {
		validationError(c, "Invalid workout ID")
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), ident.ID, id)
	if err != nil {
		upstreamError(c, err, "No workout found", "Failed to delete workout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted", "deleted": deleted})
}
