package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"octofit/models"
)

// Resources lists the collections exposed under /api/, in directory order.
var Resources = []string{
	models.UsersCollection,
	models.TeamsCollection,
	models.ActivitiesCollection,
	models.LeaderboardCollection,
	models.WorkoutsCollection,
}

// APIRoot returns a handler listing the absolute URL of every resource.
// When publicBaseURL is empty the base is derived from the request.
func APIRoot(publicBaseURL string) gin.HandlerFunc {
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")
	return func(c *gin.Context) {
		base := publicBaseURL
		if base == "" {
			base = requestBaseURL(c.Request)
		}
		directory := make(map[string]string, len(Resources))
		for _, name := range Resources {
			directory[name] = base + "/api/" + name + "/"
		}
		c.JSON(http.StatusOK, directory)
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.SplitN(proto, ",", 2)[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	return scheme + "://" + host
}
