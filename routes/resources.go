package routes

import "github.com/gin-gonic/gin"

// ResourceHandler is implemented by controllers.Resource for every entity.
type ResourceHandler interface {
	Name() string
	List(c *gin.Context)
	Create(c *gin.Context)
	Retrieve(c *gin.Context)
	Update(c *gin.Context)
	PartialUpdate(c *gin.Context)
	Delete(c *gin.Context)
}

// SetupResourceRoutes mounts the collection and item routes of h under api.
func SetupResourceRoutes(api *gin.RouterGroup, h ResourceHandler) {
	group := api.Group("/" + h.Name())
	{
		group.GET("/", h.List)
		group.POST("/", h.Create)
		group.GET("/:id/", h.Retrieve)
		group.PUT("/:id/", h.Update)
		group.PATCH("/:id/", h.PartialUpdate)
		group.DELETE("/:id/", h.Delete)
	}
}
