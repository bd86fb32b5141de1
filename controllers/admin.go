package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"octofit/middlewares"
	"octofit/services"
)

// Recomputer rebuilds the leaderboard snapshot.
type Recomputer interface {
	Recompute(ctx context.Context) (*services.RecomputeResult, error)
}

// RecomputeLeaderboard handles POST /api/admin/leaderboard/recompute.
func RecomputeLeaderboard(agg Recomputer) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := agg.Recompute(c.Request.Context())
		if err != nil {
			respondError(c, "leaderboard", err)
			return
		}

		log.Info().
			Str("admin", c.GetString(middlewares.AdminEmailKey)).
			Int("inserted", result.Inserted).
			Msg("leaderboard recompute requested")

		c.JSON(http.StatusOK, gin.H{
			"mode":                string(result.Mode),
			"deleted":             result.Deleted,
			"inserted":            result.Inserted,
			"dangling_activities": result.Dangling,
			"duration_ms":         result.Duration.Milliseconds(),
		})
	}
}
