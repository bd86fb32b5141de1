package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"octofit/db"
	"octofit/middlewares"
	"octofit/models"
)

const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// respondError writes the status and body for err and returns the metrics
// outcome label. Unexpected errors are logged and never echoed to the client.
func respondError(c *gin.Context, kind string, err error) string {
	var verr *models.ValidationError
	var cerr *db.ConstraintError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return outcomeInvalid
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return outcomeNotFound
	case errors.As(err, &cerr):
		field, message := cerr.Field, fmt.Sprintf("%s with this %s already exists.", kind, cerr.Field)
		if field == "" {
			field, message = models.NonFieldErrors, fmt.Sprintf("%s already exists.", kind)
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":  "conflict",
			"fields": map[string][]string{field: {message}},
		})
		return outcomeConflict
	default:
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(middlewares.RequestIDKey)).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return outcomeError
	}
}
