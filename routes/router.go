package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"octofit/config"
	"octofit/controllers"
	"octofit/db"
	"octofit/middlewares"
	"octofit/models"
	"octofit/services"
)

// Deps carries everything the router hands to its controllers.
type Deps struct {
	Config     *config.Config
	Stores     db.Stores
	Aggregator controllers.Recomputer
}

// NewAggregator wires the leaderboard aggregator to stores using the configured publish mode.
func NewAggregator(cfg *config.Config, stores db.Stores) (*services.LeaderboardAggregator, error) {
	mode, err := services.ParsePublishMode(cfg.Leaderboard.PublishMode)
	if err != nil {
		return nil, err
	}
	return services.NewLeaderboardAggregator(stores.Users, stores.Activities, stores.Leaderboard, mode), nil
}

// SetupRouter builds the gin engine serving the REST API, metrics and admin routes.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestID(), middlewares.RequestLogger())

	router.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	api.GET("/", controllers.APIRoot(cfg.Server.PublicBaseURL))

	SetupResourceRoutes(api, controllers.NewResource[models.User](models.UsersCollection, deps.Stores.Users, cfg.Resources.Users.EnforceUniqueness))
	SetupResourceRoutes(api, controllers.NewResource[models.Team](models.TeamsCollection, deps.Stores.Teams, false))
	SetupResourceRoutes(api, controllers.NewResource[models.Activity](models.ActivitiesCollection, deps.Stores.Activities, false))
	SetupResourceRoutes(api, controllers.NewResource[models.Leaderboard](models.LeaderboardCollection, deps.Stores.Leaderboard, false))
	SetupResourceRoutes(api, controllers.NewResource[models.Workout](models.WorkoutsCollection, deps.Stores.Workouts, false))

	SetupAdminRoutes(api, cfg.JWT.Secret, deps.Aggregator)
	return router
}
