package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liftlog/liftlog/internal/exerciselogs"
	"github.com/liftlog/liftlog/internal/supabase"
	"github.com/liftlog/liftlog/internal/workouts"
	"github.com/liftlog/liftlog/pkg/logger"
)

// validationError replies 400 with the failed rule.
func validationError(c *gin.Context, message string, details ...string) {
	body := gin.H{"message": message}
	if len(details) > 0 && details[0] != "" {
		body["details"] = details[0]
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// upstreamError maps repository failures: domain not-found sentinels become
// 404, everything else is surfaced as a 400 with the backend's message in
// details, the way the data backend's own errors read.
func upstreamError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, workouts.ErrNotFound) || errors.Is(err, exerciselogs.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
		return
	}
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": failMsg, "details": apiErr.Message})
		return
	}
	logger.Errorf("%s: %v", failMsg, err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": failMsg, "details": err.Error()})
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// validDate accepts a plain date or a full RFC 3339 timestamp.
func validDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
