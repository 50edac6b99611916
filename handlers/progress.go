package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftlog/liftlog/internal/progress"
	"github.com/liftlog/liftlog/pkg/middleware"
)

// ProgressHandler serves the training progress views.
type ProgressHandler struct {
	svc *progress.Service
}

func NewProgressHandler(svc *progress.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// Register routes under /progress
func (h *ProgressHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/progress")
	p.GET("/weight", h.Weight)
	p.GET("/muscle-groups", h.MuscleGroups)
}

func (h *ProgressHandler) Weight(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)
	exercise := c.Query("exercise")
	if exercise == "" {
		validationError(c, "Exercise is required")
		return
	}

	points, err := h.svc.WeightProgress(c.Request.Context(), ident.ID, exercise)
	if err != nil {
		upstreamError(c, err, "No log found!", "Failed to fetch progress")
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *ProgressHandler) MuscleGroups(c *gin.Context) {
	ident, _ := middleware.IdentityFromContext(c)

	dist, err := h.svc.MuscleGroupDistribution(c.Request.Context(), ident.ID)
	if err != nil {
		upstreamError(c, err, "No log found!", "Failed to fetch progress")
		return
	}
	c.JSON(http.StatusOK, dist)
}
