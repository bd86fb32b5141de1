package routes

import (
	"github.com/gin-gonic/gin"

	"octofit/controllers"
	"octofit/middlewares"
)

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(api *gin.RouterGroup, jwtSecret string, agg controllers.Recomputer) {
	admin := api.Group("/admin")
	admin.Use(middlewares.AdminAuthMiddleware(jwtSecret))
	{
		admin.POST("/leaderboard/recompute", middlewares.RBACMiddleware("leaderboard", "recompute"), controllers.RecomputeLeaderboard(agg))
	}
}
